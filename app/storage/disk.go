package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes blobs to a local directory. The directory is served
// statically under /uploads.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *DiskStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (int64, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write file: %w", err)
	}
	return written, nil
}

func (s *DiskStore) URL(key string) string {
	return s.baseURL + "/uploads/" + key
}
