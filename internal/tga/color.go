package tga

import "image/color"

// Color is one pixel in file byte order: B, G, R, A.
// Gray images use the B channel only.
type Color struct {
	B, G, R, A uint8
}

func RGB(r, g, b uint8) Color {
	return Color{B: b, G: g, R: r, A: 255}
}

func RGBA(r, g, b, a uint8) Color {
	return Color{B: b, G: g, R: r, A: a}
}

// Gray returns an opaque gray color with every channel set to v.
func Gray(v uint8) Color {
	return Color{B: v, G: v, R: v, A: 255}
}

var (
	White = RGB(255, 255, 255)
	Black = RGB(0, 0, 0)
)

// Scale multiplies the color channels by f, clamping to [0,255].
// Alpha is kept.
func (c Color) Scale(f float64) Color {
	return Color{
		B: Clamp255(float64(c.B) * f),
		G: Clamp255(float64(c.G) * f),
		R: Clamp255(float64(c.R) * f),
		A: c.A,
	}
}

// Channel returns the color channel i in B, G, R, A order.
func (c Color) Channel(i int) uint8 {
	switch i {
	case 0:
		return c.B
	case 1:
		return c.G
	case 2:
		return c.R
	default:
		return c.A
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Clamp255 converts a float channel value to a byte, truncating like the
// shading formulas expect. NaN maps to 0.
func Clamp255(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
