// Package storage defines the file storage backend used for uploads.
package storage

import (
	"context"
	"io"
)

// Store persists uploaded files under a key.
type Store interface {
	// Put writes the content and returns a location clients can use to
	// fetch it.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}
