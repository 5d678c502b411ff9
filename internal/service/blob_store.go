package service

import (
	"context"
	"io"
)

// BlobStore is the image file backend. Deletion of a missing key is not an
// error.
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}
