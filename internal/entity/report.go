package entity

// ReportDateFormat is how the Date column renders a report date.
const ReportDateFormat = "02-01-2006"

// DateColumn is prepended to RegionColumns in the combined report.
const DateColumn = "Date"

// RegionColumns names the columns of the extracted report region, in sheet order.
var RegionColumns = [RegionWidth]string{"Region", "NR", "WR", "SR", "ER", "NER", "Total", "Remarks"}

// RegionWidth is the number of data columns in a report region.
const RegionWidth = 8

// ReportRow is one row of a report region labelled with its report date.
type ReportRow struct {
	Date  string
	Cells [RegionWidth]string
}

// Values returns the row as it is written out, Date first.
func (r ReportRow) Values() []string {
	values := make([]string, 0, RegionWidth+1)
	values = append(values, r.Date)
	return append(values, r.Cells[:]...)
}

// CombinedReport is the concatenation of every extracted region, in report date order.
type CombinedReport struct {
	Rows []ReportRow
}

// Columns returns the header of the combined report.
func (c *CombinedReport) Columns() []string {
	cols := make([]string, 0, RegionWidth+1)
	cols = append(cols, DateColumn)
	return append(cols, RegionColumns[:]...)
}

// Len returns the number of rows in the report.
func (c *CombinedReport) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Rows)
}

// Append adds an extracted region to the end of the report.
func (c *CombinedReport) Append(rows ...ReportRow) {
	c.Rows = append(c.Rows, rows...)
}
