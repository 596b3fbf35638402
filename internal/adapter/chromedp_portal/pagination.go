package chromedp_portal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
	"github.com/user/psp-report-service/internal/listing"
	"github.com/user/psp-report-service/pkg/metrics"
)

// nextState is the condition of the next-page control.
type nextState string

const (
	nextAbsent   nextState = "absent"
	nextDisabled nextState = "disabled"
	nextEnabled  nextState = "enabled"
)

func parseNextState(raw string) (nextState, error) {
	switch s := nextState(raw); s {
	case nextAbsent, nextDisabled, nextEnabled:
		return s, nil
	default:
		return "", fmt.Errorf("unexpected next page state %q", raw)
	}
}

// pager is the browser surface the pagination loop drives.
type pager interface {
	// table waits for the listing to settle and returns its markup. With
	// requireChange, content matching the previous fingerprint does not count.
	table(previous string, requireChange bool) (string, error)
	nextControl() (nextState, error)
	clickNext() error
}

// CollectPages reads the listing table page by page into collector. An absent
// or disabled next-page control ends pagination normally. A failing state check or
// click also ends it, with a warning, keeping the links gathered so far.
func (s *Session) CollectPages(collector *listing.Collector) error {
	collectPages(s, collector, s.opts.MaxPages)
	return s.ctx.Err()
}

func collectPages(p pager, collector *listing.Collector, maxPages int) {
	html, err := p.table("", false)
	if html == "" {
		slog.Error("Listing table not found", "error", err)
		return
	}
	addPage(collector, html)

	for maxPages <= 0 || collector.Pages() < maxPages {
		state, err := p.nextControl()
		if err != nil {
			slog.Warn("Next page check failed, stopping pagination", "pages", collector.Pages(), "error", err)
			return
		}
		if state != nextEnabled {
			slog.Debug("Reached last listing page", "pages", collector.Pages(), "state", string(state))
			return
		}

		previous := fingerprintOf(html)
		if err := p.clickNext(); err != nil {
			slog.Warn("Next page click failed, stopping pagination", "pages", collector.Pages(), "error", err)
			return
		}

		next, err := p.table(previous, true)
		if err != nil || next == "" {
			slog.Warn("Listing did not advance after next page click", "pages", collector.Pages(), "error", err)
			return
		}
		html = next
		addPage(collector, html)
	}

	slog.Warn("Stopped at page limit", "max_pages", maxPages)
}

func addPage(collector *listing.Collector, html string) {
	n, err := collector.AddPage(html)
	if err != nil {
		slog.Warn("Could not parse listing page", "page", collector.Pages()+1, "error", err)
		return
	}
	metrics.ListingPagesTotal.Inc()
	slog.Debug("Listing page read", "page", collector.Pages(), "links", n)
}

func (s *Session) table(previous string, requireChange bool) (string, error) {
	return s.waitSettled(previous, requireChange)
}

func (s *Session) clickNext() error {
	return s.run(s.opts.ElementTimeout,
		chromedp.ScrollIntoView(s.selectors.NextPage, chromedp.ByQuery),
		chromedp.Click(s.selectors.NextPage, chromedp.ByQuery, chromedp.NodeVisible),
	)
}

// nextControl reports the state of the next-page control.
func (s *Session) nextControl() (nextState, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.ElementTimeout)
	defer cancel()

	var raw string
	if err := chromedp.Run(ctx, chromedp.Evaluate(s.selectors.nextPageScript(), &raw)); err != nil {
		return "", err
	}
	return parseNextState(raw)
}

var _ pager = (*Session)(nil)
