package raster

import (
	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/tga"
)

// Shader is the programmable part of the pipeline.
//
// Vertex is called for nth = 0, 1, 2 of a face before any Fragment call for
// that triangle; it stores whatever the fragment stage interpolates and
// returns the clip-space position. Fragment receives perspective-correct
// barycentric weights and returns the pixel color, or discard = true to
// leave the pixel untouched.
type Shader interface {
	Vertex(xf *Transform, face, nth int) mgl64.Vec4
	Fragment(bar mgl64.Vec3) (c tga.Color, discard bool)
}
