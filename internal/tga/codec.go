package tga

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Image types understood by the codec.
const (
	typeTrueColor    = 2
	typeGray         = 3
	typeRLETrueColor = 10
	typeRLEGray      = 11
)

const (
	originRight = 0x10
	originTop   = 0x20
)

// MaxDecodeBytes bounds the pixel buffer Decode allocates from header fields.
const MaxDecodeBytes = 1 << 28

// header is the fixed 18-byte TGA file header, little endian.
type header struct {
	IDLength         uint8
	ColorMapType     uint8
	ImageType        uint8
	ColorMapFirst    uint16
	ColorMapLength   uint16
	ColorMapEntryBit uint8
	XOrigin          uint16
	YOrigin          uint16
	Width            uint16
	Height           uint16
	BitsPerPixel     uint8
	Descriptor       uint8
}

var (
	ErrUnsupported = errors.New("tga: unsupported image type")
	ErrDimensions  = errors.New("tga: invalid width, height or bits per pixel")
)

// ReadFile loads a TGA file from disk.
func ReadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tga: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return img, nil
}

// Decode reads an uncompressed or run-length encoded TGA image. The result
// is normalised so that row 0 is the top row of the picture.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	var h header
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("tga: read header: %w", err)
	}
	if h.ColorMapType != 0 {
		return nil, fmt.Errorf("%w: color mapped", ErrUnsupported)
	}

	bpp := int(h.BitsPerPixel >> 3)
	if h.Width == 0 || h.Height == 0 || (bpp != Grayscale && bpp != RGBBytes && bpp != RGBABytes) {
		return nil, ErrDimensions
	}
	if int(h.Width)*int(h.Height)*bpp > MaxDecodeBytes {
		return nil, fmt.Errorf("%w: %dx%d exceeds decode limit", ErrDimensions, h.Width, h.Height)
	}
	if _, err := br.Discard(int(h.IDLength)); err != nil {
		return nil, fmt.Errorf("tga: skip image id: %w", err)
	}

	img := New(int(h.Width), int(h.Height), bpp)
	switch h.ImageType {
	case typeTrueColor, typeGray:
		if _, err := io.ReadFull(br, img.data); err != nil {
			return nil, fmt.Errorf("tga: read pixel data: %w", err)
		}
	case typeRLETrueColor, typeRLEGray:
		if err := decodeRLE(br, img); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupported, h.ImageType)
	}

	if h.Descriptor&originTop == 0 {
		img.FlipVertical()
	}
	if h.Descriptor&originRight != 0 {
		img.FlipHorizontal()
	}
	return img, nil
}

// decodeRLE expands packets: a header below 128 is followed by header+1 raw
// pixels, otherwise one pixel repeated header-127 times.
func decodeRLE(br *bufio.Reader, img *Image) error {
	bpp := img.bpp
	total := img.width * img.height
	var px [4]uint8

	for idx := 0; idx < total; {
		ph, err := br.ReadByte()
		if err != nil {
			return fmt.Errorf("tga: read rle packet: %w", err)
		}

		if ph < 128 {
			n := int(ph) + 1
			if idx+n > total {
				return fmt.Errorf("tga: rle packet overflows image at pixel %d", idx)
			}
			if _, err := io.ReadFull(br, img.data[idx*bpp:(idx+n)*bpp]); err != nil {
				return fmt.Errorf("tga: read rle raw run: %w", err)
			}
			idx += n
			continue
		}

		n := int(ph) - 127
		if idx+n > total {
			return fmt.Errorf("tga: rle packet overflows image at pixel %d", idx)
		}
		if _, err := io.ReadFull(br, px[:bpp]); err != nil {
			return fmt.Errorf("tga: read rle pixel: %w", err)
		}
		for i := 0; i < n; i++ {
			copy(img.data[idx*bpp:], px[:bpp])
			idx++
		}
	}
	return nil
}

// WriteFile stores the image uncompressed.
func (img *Image) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tga: create %s: %w", path, err)
	}
	if err := img.Encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("tga: close %s: %w", path, err)
	}
	return nil
}

// Encode writes the uncompressed variant with a top-left origin, so memory
// row 0 is displayed at the top.
func (img *Image) Encode(w io.Writer) error {
	if img.data == nil {
		return ErrDimensions
	}
	if img.width > math.MaxUint16 || img.height > math.MaxUint16 {
		return fmt.Errorf("%w: %dx%d does not fit a tga header", ErrDimensions, img.width, img.height)
	}
	h := header{
		ImageType:    typeTrueColor,
		Width:        uint16(img.width),
		Height:       uint16(img.height),
		BitsPerPixel: uint8(img.bpp << 3),
		Descriptor:   originTop,
	}
	if img.bpp == Grayscale {
		h.ImageType = typeGray
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("tga: write header: %w", err)
	}
	if _, err := bw.Write(img.data); err != nil {
		return fmt.Errorf("tga: write pixel data: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("tga: flush: %w", err)
	}
	return nil
}
