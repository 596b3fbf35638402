package listing

import (
	"net/url"
	"slices"

	"github.com/user/psp-report-service/internal/entity"
)

// Collector accumulates report links across listing pages.
type Collector struct {
	base  *url.URL
	links []entity.ReportLink
	pages int
}

// NewCollector creates a Collector that resolves hrefs against base.
func NewCollector(base *url.URL) *Collector {
	return &Collector{base: base}
}

// AddPage extracts the links of one rendered listing page and returns how many were found.
func (c *Collector) AddPage(tableHTML string) (int, error) {
	links, err := ExtractLinks(tableHTML, c.base)
	if err != nil {
		return 0, err
	}
	c.pages++
	c.links = append(c.links, links...)
	return len(links), nil
}

// Pages returns the number of pages added so far.
func (c *Collector) Pages() int {
	return c.pages
}

// Links returns a sorted copy of everything collected, oldest report first.
func (c *Collector) Links() []entity.ReportLink {
	links := slices.Clone(c.links)
	entity.SortReportLinks(links)
	return links
}
