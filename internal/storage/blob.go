// Package storage keeps the original bytes of uploaded documents in
// object storage, keyed by user, conversation and document.
package storage

import (
	"context"
	"time"
)

// BlobStore persists original document bytes.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error

	// PresignedURL returns a time-limited download URL for the object.
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
