package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"
	"github.com/user/psp-report-service/internal/entity"
	"github.com/user/psp-report-service/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ReaderImpl implements repository.SpreadsheetReader with excelize for .xlsx
// payloads and extrame/xls for legacy .xls payloads.
type ReaderImpl struct{}

// NewReader creates a new spreadsheet reader.
func NewReader() *ReaderImpl {
	return &ReaderImpl{}
}

// ReadSheet returns the raw cell grid of sheet. No header row is assumed.
func (r *ReaderImpl) ReadSheet(data []byte, format entity.SpreadsheetFormat, sheet string) ([][]string, error) {
	switch format {
	case entity.FormatXLSX:
		return readXLSX(data, sheet)
	case entity.FormatXLS:
		return readXLS(data, sheet)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format %q", format)
	}
}

func readXLSX(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readXLS(data []byte, sheet string) (grid [][]string, err error) {
	// The BIFF decoder panics on some malformed input.
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("decode xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if wb == nil {
		return nil, errors.New("open xls: empty workbook")
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil || ws.Name != sheet {
			continue
		}
		grid = make([][]string, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := sheetRow(ws, r)
			if row == nil {
				grid = append(grid, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := range cells {
				cells[c] = row.Col(c)
			}
			grid = append(grid, cells)
		}
		return grid, nil
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrSheetNotFound, sheet)
}

// sheetRow returns nil for rows without a record in the sheet, which is how
// blank rows are stored. WorkSheet.Row panics on those.
func sheetRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

var _ repository.SpreadsheetReader = (*ReaderImpl)(nil)
