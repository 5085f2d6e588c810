package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"softrender/internal/tga"

	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// Load reads a texture map and returns it with row 0 at v=0, the bottom of
// the picture, so that sampling with int(v*height) follows OBJ conventions.
func Load(path string) (*tga.Image, error) {
	img, err := decode(path)
	if err != nil {
		return nil, err
	}
	img.FlipVertical()
	return img, nil
}

func decode(path string) (*tga.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err := tga.Decode(bytes.NewReader(raw))
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, tga.ErrUnsupported) {
			return nil, fmt.Errorf("texture: decode %s: %w", path, err)
		}
		// Color-mapped and other exotic TGA variants go through the
		// registered image decoders below.
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return FromImage(src), nil
}

// FromImage converts any image to a 4-byte-per-pixel tga.Image, keeping row 0
// at the top.
func FromImage(src image.Image) *tga.Image {
	b := src.Bounds()
	n := toNRGBA(src)
	dst := tga.New(b.Dx(), b.Dy(), tga.RGBABytes)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := n.PixOffset(b.Min.X+x, b.Min.Y+y)
			dst.Set(x, y, tga.RGBA(n.Pix[i], n.Pix[i+1], n.Pix[i+2], n.Pix[i+3]))
		}
	}
	return dst
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
