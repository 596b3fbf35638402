package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/user/psp-report-service/internal/entity"
	"github.com/user/psp-report-service/internal/repository"
	"github.com/user/psp-report-service/pkg/metrics"
	"golang.org/x/sync/semaphore"
)

var (
	ErrInvalidPeriod = errors.New("invalid report period")
	ErrNoLinks       = errors.New("no data extracted")
	ErrNoValidData   = errors.New("no valid excel data found")
	ErrBusy          = errors.New("another extraction is already running")
)

// ExtractResult is the outcome of one successful extraction run.
type ExtractResult struct {
	RunID    string
	Period   entity.Period
	Report   *entity.CombinedReport
	Links    int
	Duration time.Duration
}

// FilterOptions are the selectable values of the extraction form.
type FilterOptions struct {
	FinancialYears []string `json:"financial_years"`
	Months         []string `json:"months"`
}

// ReportExtractor defines the interface for running a report extraction.
type ReportExtractor interface {
	Extract(ctx context.Context, period entity.Period) (*ExtractResult, error)
	Options() FilterOptions
}

type reportUseCase struct {
	listingRepo repository.ListingRepository
	aggregator  *Aggregator
	firstYear   int
	timeout     time.Duration
	slot        *semaphore.Weighted
	now         func() time.Time
}

// NewReportUseCase creates the extraction use case. Only one extraction runs
// at a time since each one owns a browser.
func NewReportUseCase(
	listingRepo repository.ListingRepository,
	aggregator *Aggregator,
	firstFinancialYear int,
	timeout time.Duration,
) ReportExtractor {
	return &reportUseCase{
		listingRepo: listingRepo,
		aggregator:  aggregator,
		firstYear:   firstFinancialYear,
		timeout:     timeout,
		slot:        semaphore.NewWeighted(1),
		now:         time.Now,
	}
}

// Options lists the financial years from the first configured one up to the current one, and all months.
func (uc *reportUseCase) Options() FilterOptions {
	return FilterOptions{
		FinancialYears: entity.FinancialYears(uc.firstYear, uc.now()),
		Months:         append([]string(nil), entity.Months...),
	}
}

// Extract collects the period's report links and combines their regions.
// Browser start-up and filter failures abort the run; per-report failures are
// skipped by the aggregator.
func (uc *reportUseCase) Extract(ctx context.Context, period entity.Period) (*ExtractResult, error) {
	if err := period.Validate(uc.Options().FinancialYears); err != nil {
		metrics.ExtractionsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}

	if !uc.slot.TryAcquire(1) {
		metrics.ExtractionsTotal.WithLabelValues("busy").Inc()
		return nil, ErrBusy
	}
	defer uc.slot.Release(1)

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	start := time.Now()
	log := slog.With("run_id", runID, "financial_year", period.FinancialYear, "month", period.Month)
	log.Info("Starting report extraction")

	defer func() {
		metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	}()

	links, err := uc.listingRepo.CollectLinks(ctx, period)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues(failureStatus(err)).Inc()
		log.Error("Link collection failed", "error", err)
		return nil, err
	}
	metrics.LinksCollected.Set(float64(len(links)))
	if len(links) == 0 {
		metrics.ExtractionsTotal.WithLabelValues("no_links").Inc()
		log.Warn("No report links found")
		return nil, ErrNoLinks
	}

	report, err := uc.aggregator.Aggregate(ctx, links)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues(failureStatus(err)).Inc()
		log.Error("Report aggregation interrupted", "links", len(links), "error", err)
		return nil, err
	}
	if report == nil {
		metrics.ExtractionsTotal.WithLabelValues("no_data").Inc()
		log.Warn("No report could be processed", "links", len(links))
		return nil, ErrNoValidData
	}

	result := &ExtractResult{
		RunID:    runID,
		Period:   period,
		Report:   report,
		Links:    len(links),
		Duration: time.Since(start),
	}
	metrics.ExtractionsTotal.WithLabelValues("success").Inc()
	log.Info("Report extraction complete", "links", len(links), "rows", report.Len(),
		"duration_ms", result.Duration.Milliseconds())
	return result, nil
}

func failureStatus(err error) string {
	switch {
	case errors.Is(err, repository.ErrSessionStart):
		return "session"
	case errors.Is(err, repository.ErrFilterControl):
		return "filter"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}
