package entity

// RegionLayout locates the report region inside a downloaded workbook.
// Rows are zero-based; the region always spans the first RegionWidth columns.
type RegionLayout struct {
	Sheet    string
	FirstRow int
	Rows     int
}

// DefaultRegionLayout is the MOP_E block of the daily PSP report: rows 5 to 12,
// columns A to H.
func DefaultRegionLayout() RegionLayout {
	return RegionLayout{
		Sheet:    "MOP_E",
		FirstRow: 5,
		Rows:     8,
	}
}

// LastRow is the zero-based index one past the final region row.
func (l RegionLayout) LastRow() int {
	return l.FirstRow + l.Rows
}
