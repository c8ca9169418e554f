// Package images stores uploaded images in object storage and keeps their
// metadata rows in PostgreSQL.
package images

import (
	"errors"
	"time"
)

// Record is one row of processed_images.
type Record struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	PublicURL   string    `json:"public_url"`
	FileSize    int64     `json:"file_size"`
	MimeType    string    `json:"mime_type"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrNotFound       = errors.New("image not found")
	ErrStorageUpload  = errors.New("upload to object storage failed")
	ErrMetadataInsert = errors.New("insert image metadata failed")
	ErrMetadataDelete = errors.New("delete image metadata failed")
)
