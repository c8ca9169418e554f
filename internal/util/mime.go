package util

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// DetectContentType detects the MIME type of the given data
func DetectContentType(data []byte) string {
	return http.DetectContentType(data)
}

// IsImageMIME reports whether contentType names an image type. Parameters
// such as "; charset=" are ignored.
func IsImageMIME(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	return strings.HasPrefix(strings.ToLower(mediaType), "image/")
}

// GetImageExtension returns the file extension for a given MIME type
func GetImageExtension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/tiff":
		return ".tiff"
	case "image/heif":
		return ".heif"
	case "image/avif":
		return ".avif"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".bin"
	}
}

// FileExtension picks the extension for a stored object: the uploaded
// filename's own extension when it has one, otherwise one derived from the
// content type.
func FileExtension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && ext != "." {
		return ext
	}
	return GetImageExtension(contentType)
}
