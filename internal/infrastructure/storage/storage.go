// Package storage stores uploaded photo objects either in MinIO or on the
// local filesystem behind the same interface.
package storage

import (
	"context"
	"io"
)

type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL is the address clients use to fetch the object.
	URL(key string) string
}
