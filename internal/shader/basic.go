package shader

import (
	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/raster"
	"softrender/internal/tga"
)

// Flat paints the mesh silhouette in a single color.
type Flat struct {
	model Model
	color tga.Color
}

func NewFlat(m Model, c tga.Color) *Flat {
	return &Flat{model: m, color: c}
}

func (s *Flat) Vertex(xf *raster.Transform, face, nth int) mgl64.Vec4 {
	return xf.Clip(s.model.Vert(face, nth))
}

func (s *Flat) Fragment(mgl64.Vec3) (tga.Color, bool) {
	return s.color, false
}

// Gouraud lights each vertex with its model-space normal and interpolates
// the intensity.
type Gouraud struct {
	model     Model
	light     mgl64.Vec3
	intensity mgl64.Vec3 // varying, one entry per vertex
}

func NewGouraud(m Model, light mgl64.Vec3) *Gouraud {
	return &Gouraud{model: m, light: light.Normalize()}
}

func (s *Gouraud) Vertex(xf *raster.Transform, face, nth int) mgl64.Vec4 {
	s.intensity[nth] = clampPositive(s.model.Normal(face, nth).Dot(s.light))
	return xf.Clip(s.model.Vert(face, nth))
}

func (s *Gouraud) Fragment(bar mgl64.Vec3) (tga.Color, bool) {
	return tga.White.Scale(s.intensity.Dot(bar)), false
}

// Toon is Gouraud shading with the intensity snapped to a few bands.
type Toon struct {
	Gouraud
	base tga.Color
}

// DefaultToonColor is the base color of NewToon.
var DefaultToonColor = tga.RGB(155, 0, 100)

func NewToon(m Model, light mgl64.Vec3) *Toon {
	return NewToonColor(m, light, DefaultToonColor)
}

func NewToonColor(m Model, light mgl64.Vec3, base tga.Color) *Toon {
	return &Toon{Gouraud: *NewGouraud(m, light), base: base}
}

func (s *Toon) Fragment(bar mgl64.Vec3) (tga.Color, bool) {
	return s.base.Scale(quantize(s.intensity.Dot(bar))), false
}
