package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/psp-report-service/internal/entity"
	"github.com/user/psp-report-service/internal/repository"
	"github.com/user/psp-report-service/pkg/metrics"
)

// Aggregator downloads report spreadsheets and concatenates their regions.
type Aggregator struct {
	fetcher  repository.SpreadsheetFetcher
	reader   repository.SpreadsheetReader
	layout   entity.RegionLayout
	cache    repository.RegionCache
	cacheTTL time.Duration
}

// AggregatorOption customises an Aggregator.
type AggregatorOption func(*Aggregator)

// WithRegionCache reuses regions extracted by earlier runs for ttl.
func WithRegionCache(cache repository.RegionCache, ttl time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		a.cache = cache
		a.cacheTTL = ttl
	}
}

// NewAggregator creates an aggregator reading regions at layout.
func NewAggregator(
	fetcher repository.SpreadsheetFetcher,
	reader repository.SpreadsheetReader,
	layout entity.RegionLayout,
	opts ...AggregatorOption,
) *Aggregator {
	a := &Aggregator{
		fetcher: fetcher,
		reader:  reader,
		layout:  layout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate processes links one at a time, in order. A link that cannot be
// downloaded, parsed, or sliced is logged and contributes no rows. The report
// is nil when no link produced a region. An error is returned only when ctx
// ends before every link was processed; the partial report is discarded.
func (a *Aggregator) Aggregate(ctx context.Context, links []entity.ReportLink) (*entity.CombinedReport, error) {
	if len(links) == 0 {
		return nil, nil
	}

	report := &entity.CombinedReport{}
	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, interrupted(i, len(links), link.URL, err)
		}

		region, err := a.region(ctx, link.URL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, interrupted(i, len(links), link.URL, ctxErr)
			}
			slog.Warn("Failed to process report", "url", link.URL, "error", err)
			continue
		}
		report.Append(labelRegion(link.Date, region)...)
	}

	if report.Len() == 0 {
		return nil, nil
	}
	return report, nil
}

func interrupted(done, total int, url string, err error) error {
	slog.Warn("Stopping aggregation", "processed", done, "total", total, "url", url, "error", err)
	return fmt.Errorf("aggregate reports: %d of %d processed: %w", done, total, err)
}

// region returns the sliced report region for url, from cache when possible.
func (a *Aggregator) region(ctx context.Context, url string) ([][]string, error) {
	if a.cache != nil {
		cached, found, err := a.cache.Get(ctx, url)
		if err != nil {
			slog.Warn("Region cache lookup failed", "url", url, "error", err)
		}
		if found && a.validRegion(cached) {
			metrics.ReportDownloads.WithLabelValues("cache_hit").Inc()
			return cached, nil
		}
	}

	data, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() == nil {
			metrics.ReportDownloads.WithLabelValues("fetch_error").Inc()
		}
		return nil, err
	}

	grid, err := a.reader.ReadSheet(data, entity.FormatFromURL(url), a.layout.Sheet)
	if err != nil {
		metrics.ReportDownloads.WithLabelValues("parse_error").Inc()
		return nil, err
	}

	region, err := SliceRegion(grid, a.layout)
	if err != nil {
		metrics.ReportDownloads.WithLabelValues("shape_error").Inc()
		return nil, err
	}
	metrics.ReportDownloads.WithLabelValues("success").Inc()

	if a.cache != nil {
		if err := a.cache.Set(ctx, url, region, a.cacheTTL); err != nil {
			slog.Warn("Region cache store failed", "url", url, "error", err)
		}
	}
	return region, nil
}

func (a *Aggregator) validRegion(region [][]string) bool {
	if len(region) != a.layout.Rows {
		return false
	}
	for _, row := range region {
		if len(row) != entity.RegionWidth {
			return false
		}
	}
	return true
}

// SliceRegion cuts the report region out of a raw sheet grid. Rows shorter
// than the region width are padded with empty cells, since readers drop
// trailing blanks.
func SliceRegion(grid [][]string, layout entity.RegionLayout) ([][]string, error) {
	if len(grid) < layout.LastRow() {
		return nil, fmt.Errorf("%w: sheet %s has %d rows, need %d",
			repository.ErrShapeMismatch, layout.Sheet, len(grid), layout.LastRow())
	}

	width := 0
	for _, row := range grid {
		width = max(width, len(row))
	}
	if width < entity.RegionWidth {
		return nil, fmt.Errorf("%w: sheet %s has %d columns, need %d",
			repository.ErrShapeMismatch, layout.Sheet, width, entity.RegionWidth)
	}

	region := make([][]string, 0, layout.Rows)
	for _, row := range grid[layout.FirstRow:layout.LastRow()] {
		cells := make([]string, entity.RegionWidth)
		copy(cells, row)
		region = append(region, cells)
	}
	return region, nil
}

// labelRegion turns a sliced region into report rows dated date.
func labelRegion(date time.Time, region [][]string) []entity.ReportRow {
	label := date.Format(entity.ReportDateFormat)
	rows := make([]entity.ReportRow, 0, len(region))
	for _, cells := range region {
		row := entity.ReportRow{Date: label}
		copy(row.Cells[:], cells)
		rows = append(rows, row)
	}
	return rows
}
