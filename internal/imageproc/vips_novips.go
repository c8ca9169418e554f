//go:build novips

package imageproc

func newVipsMirrorer() Mirrorer {
	return Unavailable{Reason: "binary built without libvips"}
}
