package entity

import (
	"net/url"
	"path"
	"strings"
)

// SpreadsheetFormat identifies which reader engine understands a payload.
type SpreadsheetFormat string

const (
	FormatXLSX SpreadsheetFormat = "xlsx" // Office Open XML workbook
	FormatXLS  SpreadsheetFormat = "xls"  // legacy BIFF workbook
)

// FormatFromURL picks the spreadsheet format from the extension of the URL path.
// Anything that is not .xlsx is treated as the legacy format.
func FormatFromURL(rawURL string) SpreadsheetFormat {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	if strings.EqualFold(path.Ext(p), ".xlsx") {
		return FormatXLSX
	}
	return FormatXLS
}

// HasSpreadsheetExtension reports whether rawURL ends in .xls or .xlsx, ignoring case.
func HasSpreadsheetExtension(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.HasSuffix(lower, ".xls") || strings.HasSuffix(lower, ".xlsx")
}
