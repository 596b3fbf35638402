package spreadsheet

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/psp-report-service/internal/entity"
	"github.com/user/psp-report-service/internal/repository"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadSheetXLSX(t *testing.T) {
	data := buildWorkbook(t, "MOP_E", [][]interface{}{
		{"Power Supply Position"},
		{},
		{"Region", "NR", "WR"},
		{"Demand", 123.5, 456},
	})

	grid, err := NewReader().ReadSheet(data, entity.FormatXLSX, "MOP_E")
	require.NoError(t, err)
	require.Len(t, grid, 4)
	assert.Equal(t, []string{"Power Supply Position"}, grid[0])
	assert.Empty(t, grid[1])
	assert.Equal(t, []string{"Demand", "123.5", "456"}, grid[3])
}

func TestReadSheetMissingSheet(t *testing.T) {
	data := buildWorkbook(t, "Other", [][]interface{}{{"x"}})

	_, err := NewReader().ReadSheet(data, entity.FormatXLSX, "MOP_E")
	assert.ErrorIs(t, err, repository.ErrSheetNotFound)
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestReadSheetXLS(t *testing.T) {
	grid, err := NewReader().ReadSheet(readFixture(t, "table.xls"), entity.FormatXLS, "Table")
	require.NoError(t, err)

	require.Len(t, grid, 12)
	assert.Equal(t, []string{"Code", "Name", "Description"}, grid[0])
	for i := 1; i < len(grid); i++ {
		n := fmt.Sprint(i)
		assert.Equal(t, []string{"code" + n, "name" + n, "description" + n}, grid[i])
	}
}

func TestReadSheetXLSBlankRows(t *testing.T) {
	// Row 6 of the fixture was moved to row 14, leaving rows 6 and 13 without records.
	grid, err := NewReader().ReadSheet(readFixture(t, "table_gap.xls"), entity.FormatXLS, "Table")
	require.NoError(t, err)

	require.Len(t, grid, 14)
	assert.Equal(t, []string{"code4", "name4", "description4"}, grid[4])
	assert.Empty(t, grid[5])
	assert.Equal(t, []string{"code6", "name6", "description6"}, grid[6])
	assert.Empty(t, grid[12])
	assert.Equal(t, []string{"code5", "name5", "description5"}, grid[13])
}

func TestReadSheetXLSMissingSheet(t *testing.T) {
	_, err := NewReader().ReadSheet(readFixture(t, "table.xls"), entity.FormatXLS, "MOP_E")
	assert.ErrorIs(t, err, repository.ErrSheetNotFound)
}

func TestReadSheetRejectsGarbage(t *testing.T) {
	r := NewReader()
	garbage := []byte("<html>not a workbook</html>")

	_, err := r.ReadSheet(garbage, entity.FormatXLSX, "MOP_E")
	assert.Error(t, err)

	_, err = r.ReadSheet(garbage, entity.FormatXLS, "MOP_E")
	assert.Error(t, err)

	_, err = r.ReadSheet(garbage, entity.SpreadsheetFormat("ods"), "MOP_E")
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	report := &entity.CombinedReport{}
	for i := 0; i < 3; i++ {
		report.Append(entity.ReportRow{
			Date:  "01-04-2024",
			Cells: [entity.RegionWidth]string{fmt.Sprintf("Row %d", i), "100.5", "200", "", "", "", "300", "ok"},
		})
	}

	data, err := WriteReport(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Region", "NR", "WR", "SR", "ER", "NER", "Total", "Remarks"}, rows[0])
	assert.Equal(t, []string{"01-04-2024", "Row 0", "100.5", "200", "", "", "", "300", "ok"}, rows[1])

	raw, err := f.GetCellValue(reportSheet, "H3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "300", raw)
}

func TestWriteReportEmpty(t *testing.T) {
	data, err := WriteReport(&entity.CombinedReport{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
