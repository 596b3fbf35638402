package chromedp_portal

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/psp-report-service/internal/listing"
	"github.com/user/psp-report-service/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

// fakePager serves canned listing pages. Clicking next advances one page
// unless the current page is marked stuck.
type fakePager struct {
	pages     []string
	lastState nextState
	stateErr  map[int]error
	clickErr  map[int]error
	stuck     map[int]bool
	current   int
	clicks    int
}

func (p *fakePager) table(previous string, requireChange bool) (string, error) {
	if len(p.pages) == 0 {
		return "", errWaitTimeout
	}
	html := p.pages[p.current]
	if requireChange && fingerprintOf(html) == previous {
		return html, errWaitTimeout
	}
	return html, nil
}

func (p *fakePager) nextControl() (nextState, error) {
	if err := p.stateErr[p.current]; err != nil {
		return "", err
	}
	if p.current < len(p.pages)-1 {
		return nextEnabled, nil
	}
	return p.lastState, nil
}

func (p *fakePager) clickNext() error {
	p.clicks++
	if err := p.clickErr[p.current]; err != nil {
		return err
	}
	if !p.stuck[p.current] {
		p.current++
	}
	return nil
}

func listingPages(n int) []string {
	pages := make([]string, n)
	for i := range pages {
		pages[i] = fmt.Sprintf(`<table><tr><td><a href="https://x/%02d.04.24_PSP.xls">%d</a></td></tr></table>`, i+1, i+1)
	}
	return pages
}

func TestCollectPages(t *testing.T) {
	tests := []struct {
		name   string
		pager  *fakePager
		limit  int
		pages  int
		clicks int
	}{
		{
			name:   "walks until next is disabled",
			pager:  &fakePager{pages: listingPages(3), lastState: nextDisabled},
			pages:  3,
			clicks: 2,
		},
		{
			name:   "single page without next control",
			pager:  &fakePager{pages: listingPages(1), lastState: nextAbsent},
			pages:  1,
			clicks: 0,
		},
		{
			name:   "stops at page limit",
			pager:  &fakePager{pages: listingPages(5), lastState: nextDisabled},
			limit:  2,
			pages:  2,
			clicks: 1,
		},
		{
			name:   "state check failure keeps earlier pages",
			pager:  &fakePager{pages: listingPages(4), stateErr: map[int]error{1: errors.New("target closed")}},
			pages:  2,
			clicks: 1,
		},
		{
			name:   "click failure keeps earlier pages",
			pager:  &fakePager{pages: listingPages(4), clickErr: map[int]error{2: errors.New("node not visible")}},
			pages:  3,
			clicks: 3,
		},
		{
			name:   "listing that does not advance",
			pager:  &fakePager{pages: listingPages(3), stuck: map[int]bool{0: true}},
			pages:  1,
			clicks: 1,
		},
		{
			name:  "no table",
			pager: &fakePager{},
			pages: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := listing.NewCollector(nil)
			collectPages(tt.pager, collector, tt.limit)

			assert.Equal(t, tt.pages, collector.Pages())
			assert.Len(t, collector.Links(), tt.pages)
			assert.Equal(t, tt.clicks, tt.pager.clicks)
		})
	}
}
