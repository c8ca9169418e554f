package util

import (
	"path"

	"github.com/google/uuid"
)

// StorageKey returns "<prefix>/<uuid><ext>", or just "<uuid><ext>" when prefix is empty.
func StorageKey(prefix, ext string) string {
	return path.Join(prefix, uuid.NewString()+ext)
}
