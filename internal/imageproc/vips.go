//go:build !novips

package imageproc

import (
	"fmt"

	"github.com/h2non/bimg"
)

// VipsMirrorer mirrors images with libvips.
type VipsMirrorer struct{}

func newVipsMirrorer() Mirrorer {
	return &VipsMirrorer{}
}

func (v *VipsMirrorer) Mirror(data []byte) ([]byte, error) {
	img := bimg.NewImage(data)

	size, err := img.Size()
	if err != nil {
		return nil, fmt.Errorf("read image metadata: %w", err)
	}
	if size.Width == 0 || size.Height == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	out, err := img.Process(mirrorOptions())
	if err != nil {
		return nil, fmt.Errorf("flip image: %w", err)
	}
	return out, nil
}

// mirrorOptions mirrors left to right. bimg's Flip turns the image about the
// vertical axis; Flop would turn it upside down.
func mirrorOptions() bimg.Options {
	return bimg.Options{
		Flip:    true,
		Type:    bimg.PNG,
		Quality: 100,
	}
}

func (v *VipsMirrorer) Available() bool { return true }

func (v *VipsMirrorer) Name() string { return BackendVips }
