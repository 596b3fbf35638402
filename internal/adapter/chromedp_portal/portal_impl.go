package chromedp_portal

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/user/psp-report-service/internal/entity"
	"github.com/user/psp-report-service/internal/listing"
	"github.com/user/psp-report-service/internal/repository"
)

// PortalRepoImpl implements repository.ListingRepository with a headless Chrome
// session per call.
type PortalRepoImpl struct {
	opts      Options
	selectors Selectors
	base      *url.URL
}

// NewPortalRepo creates a new listing repository for the portal at opts.PortalURL.
func NewPortalRepo(opts Options, selectors Selectors) (*PortalRepoImpl, error) {
	base, err := url.Parse(opts.PortalURL)
	if err != nil {
		return nil, fmt.Errorf("invalid portal URL: %w", err)
	}
	return &PortalRepoImpl{opts: opts.withDefaults(), selectors: selectors, base: base}, nil
}

// CollectLinks launches a browser, applies the period filter and reads every
// listing page. The browser is closed on every return path.
func (r *PortalRepoImpl) CollectLinks(ctx context.Context, period entity.Period) ([]entity.ReportLink, error) {
	session, err := Launch(ctx, r.opts, r.selectors)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.SelectFilters(period); err != nil {
		return nil, err
	}

	collector := listing.NewCollector(r.base)
	if err := session.CollectPages(collector); err != nil {
		return nil, fmt.Errorf("collect listing pages: %w", err)
	}

	links := collector.Links()
	slog.Info("Collected report links", "financial_year", period.FinancialYear, "month", period.Month,
		"pages", collector.Pages(), "links", len(links))
	return links, nil
}

var _ repository.ListingRepository = (*PortalRepoImpl)(nil)
