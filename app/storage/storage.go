package storage

import (
	"context"
	"io"
)

// BlobStore is an opaque blob store keyed by object name.
type BlobStore interface {
	// Put writes the blob and returns the number of bytes stored. size may
	// be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (int64, error)
	// URL is the public download URL for a stored key.
	URL(key string) string
}
