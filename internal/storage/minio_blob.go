package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// MinIOBlobStore is the MinIO-backed BlobStore.
type MinIOBlobStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOBlobStore creates a MinIOBlobStore on the given bucket.
func NewMinIOBlobStore(client *minio.Client, bucket string) *MinIOBlobStore {
	return &MinIOBlobStore{client: client, bucket: bucket}
}

// Put uploads the object.
func (s *MinIOBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store blob '%s': %w", key, err)
	}
	return nil
}

// Delete removes the object.
func (s *MinIOBlobStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete blob '%s': %w", key, err)
	}
	return nil
}

// PresignedURL returns a time-limited download URL for the object.
func (s *MinIOBlobStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign blob '%s': %w", key, err)
	}
	return u.String(), nil
}

var _ BlobStore = (*MinIOBlobStore)(nil)
