// Package export writes rendered images to disk, choosing the encoder from
// the file extension.
package export

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"softrender/internal/tga"
)

// Format is an output image encoding.
type Format int

const (
	None Format = iota
	TGA
	PNG
	JPEG
	WebP
	BMP
	TIFF
)

var formatNames = map[Format]string{
	TGA: "tga", PNG: "png", JPEG: "jpeg", WebP: "webp", BMP: "bmp", TIFF: "tiff",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "none"
}

// ExtToFormat maps a file extension, with or without the dot, to a Format.
func ExtToFormat(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "tga":
		return TGA, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return None, fmt.Errorf("export: extension %q not recognized", ext)
}

// Save writes img to path. Parent directories are created as needed.
func Save(path string, img *tga.Image) error {
	f, err := ExtToFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("export: mkdir %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if err := Write(bw, img, f); err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return file.Close()
}

// Write encodes img to w in format f.
func Write(w io.Writer, img *tga.Image, f Format) error {
	if f == TGA {
		return img.Encode(w)
	}
	n := toNRGBA(img)
	switch f {
	case PNG:
		return png.Encode(w, n)
	case JPEG:
		return jpeg.Encode(w, n, &jpeg.Options{Quality: 90})
	case WebP:
		return nativewebp.Encode(w, n, nil)
	case BMP:
		return bmp.Encode(w, n)
	case TIFF:
		return tiff.Encode(w, n, nil)
	}
	return fmt.Errorf("export: format %v not valid", f)
}

func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
