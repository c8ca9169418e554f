package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Delete implementations that can tell a missing key apart.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is implemented by every storage driver (R2, MinIO, local filesystem).
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	GetPublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

// UploadResult describes a stored object. ETag is empty for drivers that
// don't compute one.
type UploadResult struct {
	URL  string
	ETag string
}

func joinURL(base, key string) string {
	return base + "/" + key
}
