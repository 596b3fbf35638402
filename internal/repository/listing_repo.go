package repository

import (
	"context"

	"github.com/user/psp-report-service/internal/entity"
)

// ListingRepository drives the report portal's listing table.
type ListingRepository interface {
	// CollectLinks applies the period filter and returns every spreadsheet link
	// across all result pages, sorted by report date.
	CollectLinks(ctx context.Context, period entity.Period) ([]entity.ReportLink, error)
}
