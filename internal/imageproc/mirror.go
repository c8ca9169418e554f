// Package imageproc holds the image transformations applied to background-removal results.
package imageproc

import (
	"errors"
)

const (
	BackendVips    = "vips"
	BackendImaging = "imaging"
	BackendNone    = "none"
)

// ErrUnavailable is returned by a Mirrorer that cannot run on this deployment.
var ErrUnavailable = errors.New("image mirroring not available")

// Mirrorer flips an image horizontally and re-encodes it losslessly as PNG.
type Mirrorer interface {
	Mirror(data []byte) ([]byte, error)
	Available() bool
	Name() string
}

// New returns the mirrorer for backend. Unknown backends and "none" yield Unavailable.
func New(backend string) Mirrorer {
	switch backend {
	case BackendVips:
		return newVipsMirrorer()
	case BackendImaging:
		return NewImagingMirrorer()
	default:
		return Unavailable{}
	}
}

// Unavailable is the Mirrorer for platforms without an image library.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Mirror(data []byte) ([]byte, error) {
	if u.Reason != "" {
		return nil, errors.Join(ErrUnavailable, errors.New(u.Reason))
	}
	return nil, ErrUnavailable
}

func (Unavailable) Available() bool { return false }

func (Unavailable) Name() string { return BackendNone }
