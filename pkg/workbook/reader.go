package workbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"mariua.net/obras/models"
)

// ErrNoTable is returned when a workbook has no readable sheet or no header.
var ErrNoTable = errors.New("workbook has no table")

// Table is the first row of a sheet as header plus the data rows.
type Table struct {
	Sheet  string
	Header models.RawRow
	Rows   []models.RawRow
}

// Read opens name from src and reads sheet (the first sheet when empty).
func Read(ctx context.Context, src Source, name, sheet string) (*Table, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadFrom(rc, sheet)
}

// ReadFrom parses an xlsx stream.
func ReadFrom(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTable, err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

func readSheet(f *excelize.File, sheet string) (*Table, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoTable
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read rows from sheet %q: %v", ErrNoTable, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrNoTable, sheet)
	}

	t := &Table{Sheet: sheet, Rows: make([]models.RawRow, 0, len(rows)-1)}
	for rowIdx, row := range rows {
		raw := make(models.RawRow, len(row))
		for colIdx, value := range row {
			raw[colIdx] = typedCell(f, sheet, colIdx, rowIdx, value)
		}
		if rowIdx == 0 {
			t.Header = raw
			continue
		}
		t.Rows = append(t.Rows, raw)
	}
	return t, nil
}

// typedCell turns a raw cell string into nil, string, bool or float64.
// Text cells stay text even when they look numeric, so codes like "00123"
// keep their zeros; numeric cells (including dates stored as serials)
// become float64.
func typedCell(f *excelize.File, sheet string, col, row int, value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return value
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return value
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return value
	case excelize.CellTypeBool:
		return value == "1" || strings.EqualFold(value, "true")
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}
