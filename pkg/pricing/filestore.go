package pricing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one file per date under a directory, named by the ISO date
// and holding the raw archive JSON verbatim. The file's presence is the sole
// cache-hit signal.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(date string) string {
	return filepath.Join(s.dir, date)
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, date string) ([]byte, bool, error) {
	raw, err := os.ReadFile(s.path(date))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached %s: %w", date, err)
	}
	return raw, true, nil
}

// Put implements Store. An existing entry is left untouched.
func (s *FileStore) Put(ctx context.Context, date string, raw []byte) error {
	f, err := os.OpenFile(s.path(date), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create cache entry %s: %w", date, err)
	}
	defer f.Close()
	if _, err := f.Write(raw); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", date, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
