package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/user/psp-report-service/pkg/utils"
)

// reportDateLayout matches the D.M.YY prefix of published report filenames.
const reportDateLayout = "2.1.06"

// ReportLink is a spreadsheet download link discovered on the listing table.
type ReportLink struct {
	Date time.Time
	URL  string
}

// ParseReportDate extracts the report date encoded in the filename of rawURL,
// e.g. ".../05.04.24_NLDC_PSP.xls". The portion of the filename before the
// first underscore must be a valid day.month.2-digit-year value.
func ParseReportDate(rawURL string) (time.Time, bool) {
	prefix, _, found := strings.Cut(utils.FileName(rawURL), "_")
	if !found || prefix == "" {
		return time.Time{}, false
	}

	date, err := time.Parse(reportDateLayout, prefix)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// SortReportLinks orders links by report date, oldest first.
func SortReportLinks(links []ReportLink) {
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Date.Before(links[j].Date)
	})
}
