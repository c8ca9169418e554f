package imageproc

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// ImagingMirrorer mirrors images in pure Go. Slower than libvips but has no
// native dependencies.
type ImagingMirrorer struct{}

func NewImagingMirrorer() *ImagingMirrorer {
	return &ImagingMirrorer{}
}

func (m *ImagingMirrorer) Mirror(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	flipped := imaging.FlipH(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flipped, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *ImagingMirrorer) Available() bool { return true }

func (m *ImagingMirrorer) Name() string { return BackendImaging }
