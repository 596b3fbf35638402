package repository

import (
	"context"

	"github.com/user/psp-report-service/internal/entity"
)

// SpreadsheetFetcher downloads a report spreadsheet.
type SpreadsheetFetcher interface {
	// Fetch returns the raw body of url. A non-success status is an error.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// SpreadsheetReader opens workbook payloads.
type SpreadsheetReader interface {
	// ReadSheet returns the untyped cell grid of the named worksheet.
	// Rows may be ragged; trailing empty cells are not guaranteed to be present.
	ReadSheet(data []byte, format entity.SpreadsheetFormat, sheet string) ([][]string, error)
}
