package raster

import (
	"math"

	"softrender/internal/tga"
)

// FarDepth marks a pixel nothing has been drawn to. Depth grows towards the
// viewer, so the most negative float is "infinitely far".
const FarDepth = -math.MaxFloat64

// validDepth separates drawn pixels from FarDepth with a wide margin.
const validDepth = -1e5

// DepthBuffer holds one depth value per pixel as a flat slice for cache
// locality. It is shared by every triangle of a pass and written only by
// Triangle.
type DepthBuffer struct {
	Width  int
	Height int
	Data   []float64 // len = W*H, initialized to FarDepth
}

// NewDepthBuffer allocates a buffer with every pixel at FarDepth.
func NewDepthBuffer(w, h int) *DepthBuffer {
	b := &DepthBuffer{
		Width:  w,
		Height: h,
		Data:   make([]float64, w*h),
	}
	b.Reset()
	return b
}

// Reset sets every pixel back to FarDepth.
func (b *DepthBuffer) Reset() {
	for i := range b.Data {
		b.Data[i] = FarDepth
	}
}

func (b *DepthBuffer) Index(x, y int) int {
	return x + y*b.Width
}

func (b *DepthBuffer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// At returns the depth at (x, y), FarDepth outside the buffer.
func (b *DepthBuffer) At(x, y int) float64 {
	if !b.inside(x, y) {
		return FarDepth
	}
	return b.Data[b.Index(x, y)]
}

func (b *DepthBuffer) Set(x, y int, z float64) {
	if b.inside(x, y) {
		b.Data[b.Index(x, y)] = z
	}
}

// Valid reports whether anything was rasterized at (x, y).
func (b *DepthBuffer) Valid(x, y int) bool {
	return b.At(x, y) > validDepth
}

// ToImage renders the buffer as grayscale, nearest pixel white, with
// untouched pixels left black.
func (b *DepthBuffer) ToImage() *tga.Image {
	img := tga.New(b.Width, b.Height, tga.Grayscale)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, z := range b.Data {
		if z > validDepth {
			lo = math.Min(lo, z)
			hi = math.Max(hi, z)
		}
	}
	span := hi - lo
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if !b.Valid(x, y) {
				continue
			}
			v := 255.0
			if span > 1e-9 {
				v = 1 + 254*(b.At(x, y)-lo)/span
			}
			img.Set(x, y, tga.Gray(tga.Clamp255(v)))
		}
	}
	return img
}
