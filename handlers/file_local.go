package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"mariua.net/obras/pkg/workbook"
)

var errNotXLSX = errors.New("apenas arquivos .xlsx são aceitos")

// readUpload pulls the "file" field of a multipart form into memory and
// checks it parses as a workbook table.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, *workbook.Table, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		return nil, "", nil, fmt.Errorf("bad multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", nil, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		return nil, "", nil, errNotXLSX
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	table, err := workbook.ReadFrom(bytes.NewReader(data), "")
	if err != nil {
		return nil, "", nil, err
	}
	return data, filepath.Base(header.Filename), table, nil
}
