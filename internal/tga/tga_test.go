package tga

import (
	"bytes"
	"image/color"
	"path/filepath"
	"testing"

	ftga "github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pattern(w, h, bpp int) *Image {
	img := New(w, h, bpp)
	for i := range img.Buffer() {
		img.Buffer()[i] = uint8(i*37 + 11)
	}
	return img
}

func TestRoundTrip(t *testing.T) {
	for _, bpp := range []int{Grayscale, RGBBytes, RGBABytes} {
		src := pattern(7, 5, bpp)

		var buf bytes.Buffer
		require.NoError(t, src.Encode(&buf))
		assert.Equal(t, 18+7*5*bpp, buf.Len())

		got, err := Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, src.Width(), got.Width())
		assert.Equal(t, src.Height(), got.Height())
		assert.Equal(t, bpp, got.BytesPerPixel())
		assert.Equal(t, src.Buffer(), got.Buffer(), "bpp=%d", bpp)
	}
}

func TestRoundTripFile(t *testing.T) {
	src := pattern(3, 3, RGBBytes)
	path := filepath.Join(t.TempDir(), "out.tga")
	require.NoError(t, src.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src.Buffer(), got.Buffer())
}

func rawHeader(typ uint8, w, h uint16, bits, desc uint8) []byte {
	return []byte{
		0, 0, typ,
		0, 0, 0, 0, 0,
		0, 0, 0, 0,
		byte(w), byte(w >> 8), byte(h), byte(h >> 8),
		bits, desc,
	}
}

func TestDecodeRLE(t *testing.T) {
	data := rawHeader(typeRLETrueColor, 4, 1, 24, originTop)
	data = append(data, 0x81, 1, 2, 3)          // repeat twice
	data = append(data, 0x01, 4, 5, 6, 7, 8, 9) // two raw pixels

	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9}, img.Buffer())
	assert.Equal(t, Color{B: 4, G: 5, R: 6, A: 255}, img.Get(2, 0))
}

func TestDecodeRLEOverflow(t *testing.T) {
	data := rawHeader(typeRLEGray, 2, 1, 8, originTop)
	data = append(data, 0x83, 9)
	_, err := Decode(bytes.NewReader(data))
	assert.Error(t, err)
}

func TestDecodeBottomLeftOrigin(t *testing.T) {
	data := rawHeader(typeGray, 1, 2, 8, 0)
	data = append(data, 10, 20)

	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, uint8(20), img.Get(0, 0).B)
	assert.Equal(t, uint8(10), img.Get(0, 1).B)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)

	_, err = Decode(bytes.NewReader(rawHeader(1, 2, 2, 24, 0)))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Decode(bytes.NewReader(rawHeader(typeTrueColor, 2, 2, 16, 0)))
	assert.ErrorIs(t, err, ErrDimensions)

	_, err = Decode(bytes.NewReader(rawHeader(typeTrueColor, 2, 2, 24, originTop)))
	assert.Error(t, err, "truncated pixel data")

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.tga"))
	assert.Error(t, err)
}

func TestDecodeOversizedHeader(t *testing.T) {
	hdr := []byte{0, 0, typeTrueColor, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 32, originTop}
	_, err := Decode(bytes.NewReader(hdr))
	assert.ErrorIs(t, err, ErrDimensions)
}

func TestEncodeOversized(t *testing.T) {
	var buf bytes.Buffer
	err := New(70000, 1, Grayscale).Encode(&buf)
	assert.ErrorIs(t, err, ErrDimensions)
	assert.Zero(t, buf.Len())
}

func TestOutOfBounds(t *testing.T) {
	img := New(2, 2, RGBBytes)
	assert.False(t, img.Set(-1, 0, White))
	assert.False(t, img.Set(2, 0, White))
	assert.False(t, img.Set(0, 2, White))
	assert.Equal(t, Color{}, img.Get(5, 5))
	assert.Equal(t, Color{}, img.Get(0, -1))

	var empty Image
	assert.False(t, empty.Set(0, 0, White))
	assert.Equal(t, Color{}, empty.Get(0, 0))
}

func TestSetGet(t *testing.T) {
	rgba := New(2, 2, RGBABytes)
	c := RGBA(10, 20, 30, 40)
	require.True(t, rgba.Set(1, 1, c))
	assert.Equal(t, c, rgba.Get(1, 1))

	rgb := New(2, 2, RGBBytes)
	rgb.Set(0, 1, c)
	assert.Equal(t, RGB(10, 20, 30), rgb.Get(0, 1))

	gray := New(2, 2, Grayscale)
	gray.Set(1, 0, Gray(77))
	assert.Equal(t, Gray(77), gray.Get(1, 0))
}

func TestFlip(t *testing.T) {
	img := New(2, 3, Grayscale)
	img.Set(0, 0, Gray(1))
	img.Set(1, 2, Gray(2))

	img.FlipVertical()
	assert.Equal(t, uint8(1), img.Get(0, 2).B)
	assert.Equal(t, uint8(2), img.Get(1, 0).B)

	img.FlipHorizontal()
	assert.Equal(t, uint8(1), img.Get(1, 2).B)
	assert.Equal(t, uint8(2), img.Get(0, 0).B)
}

func TestColorScale(t *testing.T) {
	assert.Equal(t, RGB(127, 0, 50), RGB(255, 0, 100).Scale(0.5))
	assert.Equal(t, RGB(255, 255, 255), RGB(200, 200, 200).Scale(2))
	assert.Equal(t, uint8(0), Clamp255(-3))
	assert.Equal(t, uint8(0), Clamp255(nan()))
}

func nan() float64 {
	var z float64
	return z / z
}

// The written file must be readable by an independent TGA decoder.
func TestForeignDecoder(t *testing.T) {
	src := New(3, 2, RGBBytes)
	src.Set(0, 0, RGB(255, 0, 0))
	src.Set(2, 1, RGB(0, 0, 255))

	var buf bytes.Buffer
	require.NoError(t, src.Encode(&buf))

	dec, err := ftga.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), dec.Bounds())
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := color.NRGBAModel.Convert(src.At(x, y))
			got := color.NRGBAModel.Convert(dec.At(x, y))
			assert.Equal(t, want, got, "pixel %d,%d", x, y)
		}
	}
}
