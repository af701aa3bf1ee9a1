package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"talenta-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage implements BlobStore on a single bucket.
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinIOStorage builds the client and verifies the credentials by
// checking the bucket, creating it when missing.
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		base = fmt.Sprintf("%s://%s/%s", client.EndpointURL().Scheme, client.EndpointURL().Host, cfg.Bucket)
	}

	return &MinIOStorage{client: client, bucket: cfg.Bucket, baseURL: base}, nil
}

func (s *MinIOStorage) Upload(ctx context.Context, r io.Reader, size int64, opts UploadOptions) (*Asset, error) {
	key := ObjectKey(opts)
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: map[string]string{"resource-kind": opts.ResourceKind},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to minio: %w", err)
	}

	return &Asset{
		URL:        s.baseURL + "/" + key,
		Identifier: key,
		Size:       info.Size,
	}, nil
}

func (s *MinIOStorage) Destroy(ctx context.Context, identifier string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, identifier, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", identifier, mapError(err))
	}
	return nil
}

func (s *MinIOStorage) Open(ctx context.Context, identifier string) (io.ReadCloser, error) {
	if _, err := s.Stat(ctx, identifier); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, identifier, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", identifier, mapError(err))
	}
	return obj, nil
}

// OpenRange reads bytes [start, end] inclusive.
func (s *MinIOStorage) OpenRange(ctx context.Context, identifier string, start, end int64) (io.ReadCloser, error) {
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(start, end); err != nil {
		return nil, fmt.Errorf("invalid range: %w", err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, identifier, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", identifier, mapError(err))
	}
	return obj, nil
}

func (s *MinIOStorage) Stat(ctx context.Context, identifier string) (*ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, identifier, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to stat object %s: %w", identifier, mapError(err))
	}
	return &ObjectInfo{
		Size:         info.Size,
		ContentType:  info.ContentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

// PresignedDownload returns a time-limited URL that downloads the object
// as an attachment named fileName.
func (s *MinIOStorage) PresignedDownload(ctx context.Context, identifier, fileName string, expiry time.Duration) (string, error) {
	params := url.Values{}
	if fileName != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, identifier, expiry, params)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", identifier, mapError(err))
	}
	return u.String(), nil
}

func (s *MinIOStorage) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}

func (s *MinIOStorage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("minio unreachable: %w", err)
	}
	return nil
}

func mapError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return fmt.Errorf("%w: %v", ErrObjectNotFound, err)
	}
	return err
}
