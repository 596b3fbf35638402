package spreadsheet

import (
	"fmt"
	"math"
	"strconv"

	"github.com/user/psp-report-service/internal/entity"
	"github.com/xuri/excelize/v2"
)

const (
	// ReportFileName is offered as the download name of the combined report.
	ReportFileName = "Grid_India_PSP_Report.xlsx"
	// ContentType is the MIME type of an .xlsx workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	reportSheet = "Sheet1"
)

// WriteReport renders the combined report as a single-sheet workbook with a
// header row. Cells that parse as numbers are stored as numbers.
func WriteReport(report *entity.CombinedReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, 0, entity.RegionWidth+1)
	for _, col := range report.Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(reportSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}

	for i, row := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := cellValues(row)
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValues(row entity.ReportRow) []interface{} {
	values := make([]interface{}, 0, entity.RegionWidth+1)
	values = append(values, row.Date)
	for _, cell := range row.Cells {
		if n, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			values = append(values, n)
			continue
		}
		values = append(values, cell)
	}
	return values
}
