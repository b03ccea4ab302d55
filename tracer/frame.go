package tracer

import (
	"image"
	"image/color"

	"github.com/achilleasa/lumen/types"
)

// Per-pixel results accumulated over all passes. Each pass writes every
// pixel exactly once.
type Frame struct {
	W, H   uint32
	Passes uint32

	// Number of passes where the pixel ray was occluded.
	Hits []uint32

	// Sum of the transmittance of unoccluded pixel rays.
	Transmittance []types.Spectrum
}

func newFrame(w, h uint32) *Frame {
	return &Frame{
		W:             w,
		H:             h,
		Hits:          make([]uint32, w*h),
		Transmittance: make([]types.Spectrum, w*h),
	}
}

// Get the fraction of light that reaches the far side of the scene through
// pixel (x, y), averaged over all passes. Occluded passes contribute zero.
func (f *Frame) Visibility(x, y uint32) float32 {
	if f.Passes == 0 {
		return 0
	}
	return f.Transmittance[y*f.W+x].Average() / float32(f.Passes)
}

// Render the frame visibility as a grayscale image.
func (f *Frame) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, int(f.W), int(f.H)))
	for y := uint32(0); y < f.H; y++ {
		for x := uint32(0); x < f.W; x++ {
			v := min(max(f.Visibility(x, y), 0), 1)
			img.SetGray(int(x), int(y), color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}
