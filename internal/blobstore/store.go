// Package blobstore defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package blobstore

import (
	"context"
	"errors"
	"io"
)

// Transfer errors surfaced to callers. Backend-specific failure codes are
// normalized to exactly one of these three.
var (
	// ErrUnauthorized means the store rejected the credentials or the
	// bucket policy forbids the operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCanceled means the transfer was canceled before completing,
	// typically because the caller's context was canceled.
	ErrCanceled = errors.New("canceled")
	// ErrUnknown covers every failure not covered above.
	ErrUnknown = errors.New("unknown storage error")
)

// Object is one stored object as returned by a listing.
type Object struct {
	Key  string
	Size int64
}

// ProgressFunc receives byte-level transfer progress for a single upload.
// Calls arrive in non-decreasing bytesTransferred order.
type ProgressFunc func(bytesTransferred, totalBytes int64)

// Store is the interface for uploading and listing objects.
type Store interface {
	// Put streams data to the store under the given key. size must be the
	// exact byte count. progress may be nil.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string, progress ProgressFunc) error
	// List returns all objects whose key starts with prefix, in the order
	// the backend returns them.
	List(ctx context.Context, prefix string) ([]Object, error)
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}
