package workbook

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"mariua.net/obras/models"
)

// writeFixture saves rows (first row is the header) as name inside dir.
func writeFixture(t *testing.T, dir, name string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, name)))
}

func TestRead_TypedCells(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "obras.xlsx", [][]interface{}{
		{"PROJETO", "POSTES", "INICIO", "ATIVO"},
		{"00123", 12, time.Date(2025, time.November, 18, 0, 0, 0, 0, time.UTC), true},
		{},
		{"P-2", 3.5, "18/11/2025"},
	})

	table, err := Read(context.Background(), NewLocalSource(dir), "obras.xlsx", "")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", table.Sheet)
	assert.Equal(t, models.RawRow{"PROJETO", "POSTES", "INICIO", "ATIVO"}, table.Header)
	require.Len(t, table.Rows, 3)

	first := table.Rows[0]
	assert.Equal(t, "00123", first.Cell(0), "text codes keep leading zeros")
	assert.Equal(t, 12.0, first.Cell(1))
	assert.Equal(t, 45979.0, first.Cell(2), "dates come back as serials")
	assert.Equal(t, true, first.Cell(3))

	assert.Empty(t, table.Rows[1])
	assert.Equal(t, models.RawRow{"P-2", 3.5, "18/11/2025"}, table.Rows[2])
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()
	src := NewLocalSource(dir)

	_, err := Read(context.Background(), src, "missing.xlsx", "")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.xlsx"), []byte("not a zip"), 0o644))
	_, err = Read(context.Background(), src, "bad.xlsx", "")
	assert.ErrorIs(t, err, ErrNoTable)

	writeFixture(t, dir, "empty.xlsx", nil)
	_, err = Read(context.Background(), src, "empty.xlsx", "")
	assert.ErrorIs(t, err, ErrNoTable)

	writeFixture(t, dir, "ok.xlsx", [][]interface{}{{"A"}})
	_, err = Read(context.Background(), src, "ok.xlsx", "Nope")
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestLocalSource_SaveAndLock(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	src := NewLocalSource(dir)

	require.NoError(t, src.Save(ctx, "../escape.xlsx", strings.NewReader("data")))
	got, err := os.ReadFile(filepath.Join(dir, "escape.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$escape.xlsx"), nil, 0o644))
	assert.True(t, src.Locked("escape.xlsx"))
	assert.ErrorIs(t, src.Save(ctx, "escape.xlsx", strings.NewReader("new")), ErrLocked)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".upload-"), "temp file left behind: %s", e.Name())
	}
}

func TestEditor_SetCells(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := NewLocalSource(dir)
	writeFixture(t, dir, "obras.xlsx", [][]interface{}{
		{"ENCARREGADO", "PROJETO", "POSTES"},
		{"ANA", "P-1", 10},
		{"BETO", "P-2", 4},
	})

	ed := NewEditor(src, zap.NewNop())
	require.NoError(t, ed.SetCells(ctx, "obras.xlsx", "", 2, map[int]any{0: "CAIO", 2: 6}))

	table, err := Read(ctx, src, "obras.xlsx", "")
	require.NoError(t, err)
	assert.Equal(t, models.RawRow{"ANA", "P-1", 10.0}, table.Rows[0])
	assert.Equal(t, models.RawRow{"CAIO", "P-2", 6.0}, table.Rows[1])

	assert.ErrorIs(t, ed.SetCells(ctx, "obras.xlsx", "", 3, map[int]any{0: "X"}), ErrRowNotFound)
	assert.ErrorIs(t, ed.SetCells(ctx, "obras.xlsx", "", 0, map[int]any{0: "X"}), ErrRowNotFound)
	assert.ErrorIs(t, ed.SetCells(ctx, "nada.xlsx", "", 1, map[int]any{0: "X"}), ErrNotFound)
}

func TestEditor_RetriesWhileLocked(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := NewLocalSource(dir)
	writeFixture(t, dir, "obras.xlsx", [][]interface{}{{"PROJETO"}, {"P-1"}})
	lock := filepath.Join(dir, "~$obras.xlsx")
	require.NoError(t, os.WriteFile(lock, nil, 0o644))

	ed := &Editor{Src: src, Attempts: 2, Backoff: time.Millisecond, Logger: zap.NewNop()}
	assert.ErrorIs(t, ed.SetCells(ctx, "obras.xlsx", "", 1, map[int]any{0: "P-9"}), ErrLocked)

	require.NoError(t, os.Remove(lock))
	require.NoError(t, ed.SetCells(ctx, "obras.xlsx", "", 1, map[int]any{0: "P-9"}))
}

func TestReadFrom(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "PROJETO")
	f.SetCellValue("Sheet1", "A2", "P-1")
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := ReadFrom(bytes.NewReader(buf.Bytes()), "")
	require.NoError(t, err)
	assert.Equal(t, []models.RawRow{{"P-1"}}, table.Rows)
}
