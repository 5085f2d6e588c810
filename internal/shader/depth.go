package shader

import (
	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/mathutil"
	"softrender/internal/raster"
	"softrender/internal/tga"
)

// Depth writes screen-space depth as a gray level. The shadow pass uses it
// to fill the light-space depth image alongside the shadow buffer.
type Depth struct {
	model  Model
	screen mgl64.Mat3 // varying, columns are screen-space vertices
}

func NewDepth(m Model) *Depth {
	return &Depth{model: m}
}

func (s *Depth) Vertex(xf *raster.Transform, face, nth int) mgl64.Vec4 {
	clip := xf.Clip(s.model.Vert(face, nth))
	s.screen.SetCol(nth, mathutil.Proj3(mathutil.Homogenize(clip)))
	return clip
}

func (s *Depth) Fragment(bar mgl64.Vec3) (tga.Color, bool) {
	p := s.screen.Mul3x1(bar)
	return tga.White.Scale(p[2] / raster.DepthRange), false
}

// Z only positions vertices; the fragment color is black. It exists to fill
// a depth buffer.
type Z struct {
	model Model
}

func NewZ(m Model) *Z {
	return &Z{model: m}
}

func (s *Z) Vertex(xf *raster.Transform, face, nth int) mgl64.Vec4 {
	return xf.Clip(s.model.Vert(face, nth))
}

func (s *Z) Fragment(mgl64.Vec3) (tga.Color, bool) {
	return tga.Black, false
}
