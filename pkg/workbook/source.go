package workbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
)

var (
	// ErrNotFound is returned when a workbook does not exist in the source.
	ErrNotFound = errors.New("workbook not found")
	// ErrLocked is returned while the workbook is open in a spreadsheet
	// editor (an "~$name.xlsx" owner file exists next to it).
	ErrLocked = errors.New("workbook is locked by another program")
)

// Source reads and writes workbook files by name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Save(ctx context.Context, name string, r io.Reader) error
	Describe(name string) string
}

// LocalSource keeps workbooks in a directory on disk.
type LocalSource struct {
	Dir string
}

func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{Dir: dir}
}

func (s *LocalSource) path(name string) string {
	return filepath.Join(s.Dir, filepath.Base(name))
}

func (s *LocalSource) Describe(name string) string {
	return s.path(name)
}

func (s *LocalSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path(name))
	}
	return f, err
}

// Save writes through a temp file and renames it, so readers never see a
// half-written workbook.
func (s *LocalSource) Save(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Locked(name) {
		return fmt.Errorf("%w: %s", ErrLocked, s.path(name))
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".upload-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path(name))
}

// Locked reports whether a spreadsheet editor holds the workbook open.
func (s *LocalSource) Locked(name string) bool {
	base := filepath.Base(name)
	_, err := os.Stat(filepath.Join(s.Dir, "~$"+base))
	return err == nil
}

// GCSSource keeps workbooks as objects under a bucket prefix.
type GCSSource struct {
	client *storage.Client
	Bucket string
	Prefix string
}

// NewGCSSource creates a client with application default credentials.
func NewGCSSource(ctx context.Context, bucket, prefix string) (*GCSSource, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSSource{client: client, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

func (s *GCSSource) object(name string) string {
	base := filepath.Base(name)
	if s.Prefix == "" {
		return base
	}
	return s.Prefix + "/" + base
}

func (s *GCSSource) Describe(name string) string {
	return fmt.Sprintf("gs://%s/%s", s.Bucket, s.object(name))
}

func (s *GCSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.Bucket).Object(s.object(name)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Describe(name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Describe(name), err)
	}
	return r, nil
}

func (s *GCSSource) Save(ctx context.Context, name string, r io.Reader) error {
	w := s.client.Bucket(s.Bucket).Object(s.object(name)).NewWriter(ctx)
	w.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("failed to upload %s: %w", s.Describe(name), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to upload %s: %w", s.Describe(name), err)
	}
	return nil
}

func (s *GCSSource) Close() error {
	return s.client.Close()
}
