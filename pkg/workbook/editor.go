package workbook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrRowNotFound is returned when an edit targets a row past the sheet end.
var ErrRowNotFound = errors.New("row not found")

// Editor applies cell edits to a workbook held in a Source, retrying while
// the file is locked by a spreadsheet editor.
type Editor struct {
	Src      Source
	Attempts int
	Backoff  time.Duration
	Logger   *zap.Logger
}

func NewEditor(src Source, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{Src: src, Attempts: 3, Backoff: 2 * time.Second, Logger: logger}
}

// SetCells writes values (0-based column → value) into data row id, where id
// 1 is the first row under the header.
func (e *Editor) SetCells(ctx context.Context, name, sheet string, id int, values map[int]any) error {
	if id < 1 {
		return fmt.Errorf("%w: id %d", ErrRowNotFound, id)
	}

	var err error
	for attempt := 1; attempt <= e.Attempts; attempt++ {
		err = e.apply(ctx, name, sheet, id, values)
		if !errors.Is(err, ErrLocked) {
			return err
		}
		e.Logger.Warn("Planilha bloqueada, tentando novamente",
			zap.String("arquivo", e.Src.Describe(name)),
			zap.Int("tentativa", attempt))

		if attempt == e.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.Backoff * time.Duration(attempt)):
		}
	}
	return err
}

func (e *Editor) apply(ctx context.Context, name, sheet string, id int, values map[int]any) error {
	rc, err := e.Src.Open(ctx, name)
	if err != nil {
		return err
	}
	f, err := excelize.OpenReader(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	line := id + 1
	if line > len(rows) {
		return fmt.Errorf("%w: id %d", ErrRowNotFound, id)
	}

	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, line)
		if err != nil {
			return fmt.Errorf("cell for column %d: %w", col, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return e.Src.Save(ctx, name, buf)
}
