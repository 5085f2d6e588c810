package tga

import (
	"image"
	"image/color"
)

const (
	Grayscale = 1
	RGBBytes  = 3
	RGBABytes = 4
)

// Image is a width×height grid of pixels stored row by row in file byte
// order. Row 0 is the first row written to (and read from) the file.
type Image struct {
	width  int
	height int
	bpp    int
	data   []uint8
}

// New allocates a zero-filled image. bpp is 1, 3 or 4.
func New(width, height, bpp int) *Image {
	return &Image{
		width:  width,
		height: height,
		bpp:    bpp,
		data:   make([]uint8, width*height*bpp),
	}
}

func (img *Image) Width() int         { return img.width }
func (img *Image) Height() int        { return img.height }
func (img *Image) BytesPerPixel() int { return img.bpp }

// Buffer exposes the raw pixel bytes.
func (img *Image) Buffer() []uint8 { return img.data }

func (img *Image) inside(x, y int) bool {
	return img.data != nil && x >= 0 && y >= 0 && x < img.width && y < img.height
}

// Get returns the pixel at (x, y), or the zero Color when out of bounds.
func (img *Image) Get(x, y int) Color {
	if !img.inside(x, y) {
		return Color{}
	}
	p := img.data[(x+y*img.width)*img.bpp:]
	switch img.bpp {
	case Grayscale:
		return Gray(p[0])
	case RGBBytes:
		return Color{B: p[0], G: p[1], R: p[2], A: 255}
	default:
		return Color{B: p[0], G: p[1], R: p[2], A: p[3]}
	}
}

// Set writes the pixel at (x, y). Out-of-bounds writes are ignored and
// report false.
func (img *Image) Set(x, y int, c Color) bool {
	if !img.inside(x, y) {
		return false
	}
	p := img.data[(x+y*img.width)*img.bpp:]
	p[0] = c.B
	if img.bpp >= RGBBytes {
		p[1] = c.G
		p[2] = c.R
	}
	if img.bpp == RGBABytes {
		p[3] = c.A
	}
	return true
}

// Clear fills every pixel with c.
func (img *Image) Clear(c Color) {
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			img.Set(x, y, c)
		}
	}
}

func (img *Image) FlipVertical() {
	line := img.width * img.bpp
	tmp := make([]uint8, line)
	for top, bot := 0, img.height-1; top < bot; top, bot = top+1, bot-1 {
		a := img.data[top*line : (top+1)*line]
		b := img.data[bot*line : (bot+1)*line]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

func (img *Image) FlipHorizontal() {
	for y := 0; y < img.height; y++ {
		for l, r := 0, img.width-1; l < r; l, r = l+1, r-1 {
			cl, cr := img.Get(l, y), img.Get(r, y)
			img.Set(l, y, cr)
			img.Set(r, y, cl)
		}
	}
}

// ColorModel implements image.Image.
func (img *Image) ColorModel() color.Model {
	if img.bpp == Grayscale {
		return color.GrayModel
	}
	return color.NRGBAModel
}

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.width, img.height)
}

// At implements image.Image. Row 0 is the top of the picture, which is how
// the encoder labels it.
func (img *Image) At(x, y int) color.Color {
	c := img.Get(x, y)
	if img.bpp == Grayscale {
		return color.Gray{Y: c.B}
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
