package entity

import (
	"fmt"
	"slices"
	"time"
)

// AllMonths selects every month of the financial year on the portal.
const AllMonths = "ALL"

// Months lists the month filter labels in portal order.
var Months = []string{
	AllMonths,
	"April", "May", "June", "July", "August", "September",
	"October", "November", "December", "January", "February", "March",
}

// Period is the financial year and month filter applied to the listing.
type Period struct {
	FinancialYear string `json:"financial_year"`
	Month         string `json:"month"`
}

// FinancialYearLabel renders the portal's label for the year starting in April of start, e.g. "2024-25".
func FinancialYearLabel(start int) string {
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// FinancialYearStart returns the calendar year in which the financial year containing t began.
func FinancialYearStart(t time.Time) int {
	if t.Month() >= time.April {
		return t.Year()
	}
	return t.Year() - 1
}

// FinancialYears enumerates labels from first up to the financial year containing now, newest first.
func FinancialYears(first int, now time.Time) []string {
	last := FinancialYearStart(now)
	if last < first {
		last = first
	}
	years := make([]string, 0, last-first+1)
	for y := last; y >= first; y-- {
		years = append(years, FinancialYearLabel(y))
	}
	return years
}

// Validate checks that the period uses labels from the enumerated options.
func (p Period) Validate(years []string) error {
	if !slices.Contains(years, p.FinancialYear) {
		return fmt.Errorf("unknown financial year %q", p.FinancialYear)
	}
	if !slices.Contains(Months, p.Month) {
		return fmt.Errorf("unknown month %q", p.Month)
	}
	return nil
}
