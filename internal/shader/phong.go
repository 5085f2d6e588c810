package shader

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/mathutil"
	"softrender/internal/raster"
	"softrender/internal/tga"
)

// tangentDetEpsilon is the smallest |det| of the tangent-space system
// before falling back to the interpolated normal.
const tangentDetEpsilon = 1e-12

// Phong is the full shading model: tangent-space normal mapping, diffuse
// and specular terms, a shadow-map lookup, screen-space ambient occlusion
// and an additive glow map.
type Phong struct {
	model  Model
	params Params
	light  mgl64.Vec3 // direction in projected view space

	shadowM mgl64.Mat4 // camera screen → light screen
	shadow  *raster.DepthBuffer
	ao      *tga.Image

	// varyings, one column per vertex
	uv     mgl64.Mat2x3
	normal mgl64.Mat3
	ndc    mgl64.Mat3
	screen mgl64.Mat3
}

// NewPhong prepares a Phong shader for the camera xf. shadowXF and shadow
// describe the light pass; either nil disables shadows. ao is the ambient
// occlusion image in camera screen space; nil means unoccluded.
func NewPhong(m Model, xf *raster.Transform, light mgl64.Vec3,
	shadowXF *raster.Transform, shadow *raster.DepthBuffer, ao *tga.Image, p Params) *Phong {
	s := &Phong{
		model:  m,
		params: p,
		light:  mathutil.Proj3(xf.PMV().Mul4x1(mathutil.Embed4(light, 0))).Normalize(),
		ao:     ao,
	}
	if shadowXF != nil && shadow != nil {
		s.shadow = shadow
		s.shadowM = shadowXF.MVP().Mul4(xf.MVPInverse())
	}
	return s
}

func (s *Phong) Vertex(xf *raster.Transform, face, nth int) mgl64.Vec4 {
	s.uv.SetCol(nth, s.model.UV(face, nth))

	n := xf.NormalMatrix().Mul4x1(mathutil.Embed4(s.model.Normal(face, nth), 0))
	s.normal.SetCol(nth, mathutil.Proj3(n))

	v := mathutil.Embed4(s.model.Vert(face, nth), 1)
	s.ndc.SetCol(nth, mathutil.Proj3(mathutil.Homogenize(xf.PMV().Mul4x1(v))))

	clip := xf.MVP().Mul4x1(v)
	s.screen.SetCol(nth, mathutil.Proj3(mathutil.Homogenize(clip)))
	return clip
}

func (s *Phong) Fragment(bar mgl64.Vec3) (tga.Color, bool) {
	p := s.params
	scr := s.screen.Mul3x1(bar)
	uv := s.uv.Mul3x1(bar)
	bn := s.normal.Mul3x1(bar).Normalize()

	n := bn
	if s.model.HasNormalMap() {
		n = s.tangentNormal(bn, uv)
	}

	l := s.light
	diff := math.Max(0, n.Dot(l))
	var spec float64
	if e := s.model.SampleSpecular(uv); e > 0 {
		r := n.Mul(2 * n.Dot(l)).Sub(l).Normalize()
		spec = math.Pow(math.Max(r[2], 0), e)
	}

	shadow := s.shadowFactor(scr)
	ao := s.occlusion(scr)
	c := s.model.SampleDiffuse(uv)
	glow := s.model.SampleGlow(uv)
	lit := shadow * (p.Diffuse*diff + p.Specular*spec)

	var out [3]uint8
	for i := range out {
		v := p.Ambient*ao + float64(c.Channel(i))*lit + float64(glow.Channel(i))*p.Glow
		out[i] = tga.Clamp255(math.Min(v, 255))
	}
	return tga.Color{B: out[0], G: out[1], R: out[2], A: 255}, false
}

// tangentNormal rotates the normal-map sample into the tangent frame built
// from the triangle's NDC edges and UV deltas.
func (s *Phong) tangentNormal(bn mgl64.Vec3, uv mgl64.Vec2) mgl64.Vec3 {
	e1 := s.ndc.Col(1).Sub(s.ndc.Col(0))
	e2 := s.ndc.Col(2).Sub(s.ndc.Col(0))
	a := mgl64.Mat3FromRows(e1, e2, bn)
	if math.Abs(a.Det()) < tangentDetEpsilon {
		return bn
	}
	ai := a.Inv()

	uv0, uv1, uv2 := s.uv.Col(0), s.uv.Col(1), s.uv.Col(2)
	i := ai.Mul3x1(mgl64.Vec3{uv1[0] - uv0[0], uv2[0] - uv0[0], 0})
	j := ai.Mul3x1(mgl64.Vec3{uv1[1] - uv0[1], uv2[1] - uv0[1], 0})
	if i.Len() == 0 || j.Len() == 0 {
		return bn
	}

	b := mgl64.Mat3FromCols(i.Normalize(), j.Normalize(), bn)
	n := b.Mul3x1(s.model.SampleNormal(uv))
	if n.Len() == 0 {
		return bn
	}
	return n.Normalize()
}

// shadowFactor returns 1 when the fragment is lit and ShadowDim otherwise.
// Points projecting outside the shadow buffer count as lit.
func (s *Phong) shadowFactor(scr mgl64.Vec3) float64 {
	if s.shadow == nil {
		return 1
	}
	sb := mathutil.Homogenize(s.shadowM.Mul4x1(mathutil.Embed4(scr, 1)))
	x, y := sb[0], sb[1]
	if math.IsNaN(x) || math.IsNaN(y) || x < 0 || y < 0 ||
		x >= float64(s.shadow.Width) || y >= float64(s.shadow.Height) {
		return 1
	}
	if s.shadow.At(int(x), int(y)) < sb[2]+s.params.ShadowBias {
		return 1
	}
	return s.params.ShadowDim
}

func (s *Phong) occlusion(scr mgl64.Vec3) float64 {
	if s.ao == nil {
		return 1
	}
	return float64(s.ao.Get(int(scr[0]), int(scr[1])).B) / 255
}
