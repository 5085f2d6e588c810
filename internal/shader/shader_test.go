package shader

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softrender/internal/raster"
	"softrender/internal/tga"
)

// quadModel is a unit square facing +z made of two triangles.
type quadModel struct {
	diffuse  tga.Color
	specular float64
	glow     tga.Color
	nm       bool
	mapped   mgl64.Vec3 // normal-map sample, +z when zero
	flatUV   bool       // every corner shares one UV
}

var quadVerts = [2][3]mgl64.Vec3{
	{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}},
	{{-1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
}

func (m *quadModel) NumFaces() int                      { return 2 }
func (m *quadModel) Vert(face, nth int) mgl64.Vec3      { return quadVerts[face][nth] }
func (m *quadModel) Normal(face, nth int) mgl64.Vec3    { return mgl64.Vec3{0, 0, 1} }
func (m *quadModel) SampleDiffuse(mgl64.Vec2) tga.Color { return m.diffuse }
func (m *quadModel) SampleSpecular(mgl64.Vec2) float64  { return m.specular }
func (m *quadModel) SampleGlow(mgl64.Vec2) tga.Color    { return m.glow }
func (m *quadModel) HasNormalMap() bool                 { return m.nm }

func (m *quadModel) SampleNormal(mgl64.Vec2) mgl64.Vec3 {
	if m.mapped == (mgl64.Vec3{}) {
		return mgl64.Vec3{0, 0, 1}
	}
	return m.mapped
}

func (m *quadModel) UV(face, nth int) mgl64.Vec2 {
	if m.flatUV {
		return mgl64.Vec2{0.5, 0.5}
	}
	v := quadVerts[face][nth]
	return mgl64.Vec2{(v[0] + 1) / 2, (v[1] + 1) / 2}
}

func frontCamera(w, h int) *raster.Transform {
	eye := mgl64.Vec3{0, 0, 3}
	center := mgl64.Vec3{}
	return raster.NewTransform(eye, center, mgl64.Vec3{0, 1, 0},
		raster.DefaultViewport(w, h), raster.PerspectiveCoeff(eye, center))
}

func render(t *testing.T, sh raster.Shader, m Model, w, h int) (*tga.Image, *raster.DepthBuffer) {
	t.Helper()
	img := tga.New(w, h, tga.RGBBytes)
	zbuf := raster.NewDepthBuffer(w, h)
	raster.DrawMesh(m.NumFaces(), sh, frontCamera(w, h), img, zbuf)
	return img, zbuf
}

func TestQuantize(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{1, 1}, {0.9, 1}, {0.85, 0.8}, {0.7, 0.8}, {0.5, 0.6},
		{0.4, 0.45}, {0.2, 0.3}, {0.15, 0}, {0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, quantize(c.in), "intensity %v", c.in)
	}
}

func TestSimpleByName(t *testing.T) {
	m := &quadModel{}
	for _, name := range []string{NameFlat, NameGouraud, NameToon, NameDepth} {
		sh, err := Simple(name, m, mgl64.Vec3{0, 0, 1})
		require.NoError(t, err, name)
		assert.NotNil(t, sh)
	}
	_, err := Simple("wireframe", m, mgl64.Vec3{0, 0, 1})
	assert.Error(t, err)
}

func TestFlatCoversQuad(t *testing.T) {
	m := &quadModel{}
	img, zbuf := render(t, NewFlat(m, tga.RGB(10, 20, 30)), m, 64, 64)

	// The quad fills the default viewport box.
	assert.Equal(t, tga.RGB(10, 20, 30), img.Get(28, 36))
	assert.True(t, zbuf.Valid(28, 36))
	assert.False(t, zbuf.Valid(2, 2))
	assert.Equal(t, tga.Black, img.Get(2, 2))
}

func TestGouraudFacingLight(t *testing.T) {
	m := &quadModel{}
	img, _ := render(t, NewGouraud(m, mgl64.Vec3{0, 0, 5}), m, 64, 64)
	assert.Equal(t, tga.White, img.Get(28, 36))

	img, _ = render(t, NewGouraud(m, mgl64.Vec3{0, 0, -1}), m, 64, 64)
	assert.Equal(t, tga.Black, img.Get(28, 36))
}

func TestToonBands(t *testing.T) {
	m := &quadModel{}
	// n·l = cos(60°) = 0.5 lands in the 0.6 band.
	light := mgl64.Vec3{math.Sin(math.Pi / 3), 0, math.Cos(math.Pi / 3)}
	img, _ := render(t, NewToon(m, light), m, 64, 64)
	assert.Equal(t, DefaultToonColor.Scale(0.6), img.Get(28, 36))
}

func TestDepthShaderGray(t *testing.T) {
	m := &quadModel{}
	img, zbuf := render(t, NewDepth(m), m, 64, 64)
	c := img.Get(28, 36)
	want := tga.Clamp255(255 * zbuf.At(28, 36) / raster.DepthRange)
	assert.InDelta(t, float64(want), float64(c.R), 1)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
}

func TestZShaderFillsDepthOnly(t *testing.T) {
	m := &quadModel{}
	img, zbuf := render(t, NewZ(m), m, 64, 64)
	assert.Equal(t, tga.Black, img.Get(28, 36))
	assert.True(t, zbuf.Valid(28, 36))
}

func TestPhongHeadOnLight(t *testing.T) {
	m := &quadModel{diffuse: tga.RGB(100, 100, 100)}
	xf := frontCamera(64, 64)
	p := DefaultParams()
	sh := NewPhong(m, xf, mgl64.Vec3{0, 0, 1}, nil, nil, nil, p)

	img := tga.New(64, 64, tga.RGBBytes)
	zbuf := raster.NewDepthBuffer(64, 64)
	raster.DrawMesh(m.NumFaces(), sh, xf, img, zbuf)

	// Ambient (AO = 1) plus a fully lit diffuse term.
	want := tga.Clamp255(p.Ambient + 100*p.Diffuse)
	c := img.Get(28, 36)
	assert.InDelta(t, float64(want), float64(c.R), 1)
	assert.Equal(t, uint8(255), c.A)
}

func TestPhongAmbientUsesAO(t *testing.T) {
	m := &quadModel{diffuse: tga.Black}
	xf := frontCamera(32, 32)
	ao := tga.New(32, 32, tga.RGBBytes)
	ao.Clear(tga.Gray(0)) // fully occluded
	sh := NewPhong(m, xf, mgl64.Vec3{0, 0, 1}, nil, nil, ao, DefaultParams())

	img := tga.New(32, 32, tga.RGBBytes)
	raster.DrawMesh(m.NumFaces(), sh, xf, img, raster.NewDepthBuffer(32, 32))
	assert.Equal(t, tga.RGBA(0, 0, 0, 255), img.Get(13, 18))
}

func TestPhongGlowAndNormalMap(t *testing.T) {
	m := &quadModel{diffuse: tga.Black, glow: tga.RGB(2, 0, 0), nm: true}
	xf := frontCamera(32, 32)
	p := DefaultParams()
	p.Ambient = 0
	sh := NewPhong(m, xf, mgl64.Vec3{0, 0, 1}, nil, nil, nil, p)

	img := tga.New(32, 32, tga.RGBBytes)
	raster.DrawMesh(m.NumFaces(), sh, xf, img, raster.NewDepthBuffer(32, 32))
	c := img.Get(13, 18)
	assert.Equal(t, tga.Clamp255(2*p.Glow), c.R)
	assert.Equal(t, uint8(0), c.G)
}

func TestPhongShadowDims(t *testing.T) {
	m := &quadModel{diffuse: tga.RGB(200, 200, 200)}
	xf := frontCamera(32, 32)
	p := DefaultParams()
	p.Ambient = 0

	// An occluder recorded far above every fragment depth in light space.
	occluded := raster.NewDepthBuffer(32, 32)
	for i := range occluded.Data {
		occluded.Data[i] = 1e6
	}
	sh := NewPhong(m, xf, mgl64.Vec3{0, 0, 1}, xf, occluded, nil, p)
	img := tga.New(32, 32, tga.RGBBytes)
	raster.DrawMesh(m.NumFaces(), sh, xf, img, raster.NewDepthBuffer(32, 32))
	assert.InDelta(t, 200*p.ShadowDim, float64(img.Get(13, 18).R), 1)

	// An empty shadow buffer never occludes.
	sh = NewPhong(m, xf, mgl64.Vec3{0, 0, 1}, xf, raster.NewDepthBuffer(32, 32), nil, p)
	img = tga.New(32, 32, tga.RGBBytes)
	raster.DrawMesh(m.NumFaces(), sh, xf, img, raster.NewDepthBuffer(32, 32))
	assert.InDelta(t, 200.0, float64(img.Get(13, 18).R), 1)
}

func TestPhongTangentSpaceNormal(t *testing.T) {
	p := DefaultParams()
	p.Ambient = 0
	light := mgl64.Vec3{1, 0, 0}

	shade := func(m *quadModel) uint8 {
		xf := frontCamera(32, 32)
		img := tga.New(32, 32, tga.RGBBytes)
		sh := NewPhong(m, xf, light, nil, nil, nil, p)
		raster.DrawMesh(m.NumFaces(), sh, xf, img, raster.NewDepthBuffer(32, 32))
		return img.Get(13, 18).R
	}
	gray := tga.RGB(200, 200, 200)

	// UVs run along x and y, so the tangent frame is the identity.
	assert.InDelta(t, 200.0, float64(shade(&quadModel{diffuse: gray, nm: true, mapped: mgl64.Vec3{1, 0, 0}})), 1)
	assert.Equal(t, uint8(0), shade(&quadModel{diffuse: gray, nm: true, mapped: mgl64.Vec3{-1, 0, 0}}))

	// Without a normal map the sample is ignored.
	assert.Equal(t, uint8(0), shade(&quadModel{diffuse: gray, mapped: mgl64.Vec3{1, 0, 0}}))

	// Degenerate UVs leave no tangent frame; the interpolated +z normal is kept.
	assert.Equal(t, uint8(0), shade(&quadModel{diffuse: gray, nm: true, mapped: mgl64.Vec3{1, 0, 0}, flatUV: true}))
}
