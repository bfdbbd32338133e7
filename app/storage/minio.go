package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vocali/vocali-backend/config"
)

// MinioStore keeps blobs in an S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewMinioStore(cfg config.StorageConfig) (*MinioStore, error) {
	endpoint := cfg.MinioEndpoint
	useSSL := cfg.MinioUseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &MinioStore{client: client, cfg: cfg}, nil
}

func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.MinioBucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.MinioBucket, err)
		}
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (int64, error) {
	info, err := s.client.PutObject(ctx, s.cfg.MinioBucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("put object: %w", err)
	}
	return info.Size, nil
}

func (s *MinioStore) URL(key string) string {
	base := strings.TrimSuffix(s.cfg.MinioEndpoint, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		scheme := "http"
		if s.cfg.MinioUseSSL {
			scheme = "https"
		}
		base = scheme + "://" + base
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.MinioBucket, key)
}
