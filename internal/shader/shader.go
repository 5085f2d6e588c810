// Package shader implements the vertex/fragment programs run by the
// rasterizer: flat, Gouraud, toon, depth-only, position-only and the full
// normal-mapped Phong model with shadows and ambient occlusion.
package shader

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/raster"
	"softrender/internal/tga"
)

// Model is the mesh data a shader reads. mesh.Model implements it.
type Model interface {
	NumFaces() int
	Vert(face, nth int) mgl64.Vec3
	UV(face, nth int) mgl64.Vec2
	Normal(face, nth int) mgl64.Vec3

	SampleDiffuse(uv mgl64.Vec2) tga.Color
	SampleNormal(uv mgl64.Vec2) mgl64.Vec3
	SampleSpecular(uv mgl64.Vec2) float64
	SampleGlow(uv mgl64.Vec2) tga.Color
	HasNormalMap() bool
}

// Params holds the lighting constants of the Phong model.
type Params struct {
	Ambient    float64 // added per channel, scaled by the AO factor
	Diffuse    float64
	Specular   float64
	Glow       float64
	ShadowBias float64 // depth slack before a fragment counts as shadowed
	ShadowDim  float64 // light factor inside shadow
}

// DefaultParams returns the standard lighting.
func DefaultParams() Params {
	return Params{
		Ambient:    20,
		Diffuse:    1.0,
		Specular:   1.1,
		Glow:       30,
		ShadowBias: 43.34,
		ShadowDim:  0.3,
	}
}

// Names of the single-pass shaders accepted by Simple.
const (
	NameFlat    = "flat"
	NameGouraud = "gouraud"
	NameToon    = "toon"
	NameDepth   = "depth"
)

// Simple builds a single-pass shader by name.
func Simple(name string, m Model, light mgl64.Vec3) (raster.Shader, error) {
	switch name {
	case NameFlat:
		return NewFlat(m, tga.White), nil
	case NameGouraud:
		return NewGouraud(m, light), nil
	case NameToon:
		return NewToon(m, light), nil
	case NameDepth:
		return NewDepth(m), nil
	}
	return nil, fmt.Errorf("shader: unknown shader %q", name)
}

// Toon quantisation: intensity above a threshold snaps to its level.
var toonBands = [...]struct{ above, level float64 }{
	{.85, 1},
	{.60, .80},
	{.45, .60},
	{.30, .45},
	{.15, .30},
}

func quantize(intensity float64) float64 {
	for _, b := range toonBands {
		if intensity > b.above {
			return b.level
		}
	}
	return 0
}

func clampPositive(v float64) float64 {
	return math.Max(0, v)
}
