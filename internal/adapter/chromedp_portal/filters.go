package chromedp_portal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
	"github.com/user/psp-report-service/internal/entity"
	"github.com/user/psp-report-service/internal/repository"
)

// SelectFilters chooses the financial year and month and widens the page size,
// leaving the first page of matching results on screen.
// Each step waits for the listing to re-render before the next one starts.
func (s *Session) SelectFilters(period entity.Period) error {
	if err := s.chooseAndWait(s.selectors.YearDropdown, period.FinancialYear); err != nil {
		return err
	}
	if err := s.chooseAndWait(s.selectors.MonthDropdown, period.Month); err != nil {
		return err
	}

	s.applyPageSize()
	return nil
}

func (s *Session) chooseAndWait(control, label string) error {
	previous := s.snapshot()
	if err := s.choose(control, label); err != nil {
		return err
	}
	if _, err := s.waitRefreshed(previous); err != nil {
		slog.Debug("Listing did not settle after filter selection", "label", label, "error", err)
	}
	return nil
}

// choose opens the dropdown matched by control and clicks the option showing label.
func (s *Session) choose(control, label string) error {
	err := s.run(s.opts.ElementTimeout,
		chromedp.Click(control, chromedp.ByQuery, chromedp.NodeVisible),
		chromedp.Click(s.selectors.Option(label), chromedp.BySearch, chromedp.NodeVisible),
	)
	if err != nil {
		return fmt.Errorf("%w: select %q: %v", repository.ErrFilterControl, label, err)
	}

	// The dropdown re-renders asynchronously; wait until it shows the choice.
	if err := s.poll(s.opts.ElementTimeout, func(ctx context.Context) (bool, error) {
		return evalBool(ctx, s.selectors.selectedValueScript(control, label))
	}); err != nil {
		slog.Warn("Dropdown did not confirm selection", "label", label, "error", err)
	}
	return nil
}

// applyPageSize selects the largest page size when the control is available.
// The listing keeps its default page size otherwise.
func (s *Session) applyPageSize() {
	previous := s.snapshot()
	err := s.poll(s.opts.SettleTimeout, func(ctx context.Context) (bool, error) {
		return evalBool(ctx, s.selectors.pageSizeScript())
	})
	if err != nil {
		slog.Debug("Page size control unavailable, using default page size", "error", err)
		return
	}

	if _, err := s.waitRefreshed(previous); err != nil {
		slog.Debug("Listing did not settle after page size change", "error", err)
	}
}
