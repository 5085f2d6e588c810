package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/raster"
	"softrender/internal/tga"
)

const (
	aoDirections = 8
	aoMaxSteps   = 1000
	aoExponent   = 100
)

// MaxElevationAngle walks from p along dir one pixel step at a time and
// returns the steepest angle (radians, never negative) at which the depth
// buffer rises above p. The walk stops at the buffer edge.
func MaxElevationAngle(zbuf *raster.DepthBuffer, p, dir mgl64.Vec2) float64 {
	base := zbuf.At(int(p[0]), int(p[1]))
	w, h := float64(zbuf.Width), float64(zbuf.Height)

	var maxAngle float64
	for t := 0; t < aoMaxSteps; t++ {
		cur := p.Add(dir.Mul(float64(t)))
		if cur[0] < 0 || cur[1] < 0 || cur[0] >= w || cur[1] >= h {
			break
		}
		dist := cur.Sub(p).Len()
		if dist < 1 {
			continue
		}
		elevation := zbuf.At(int(cur[0]), int(cur[1])) - base
		maxAngle = math.Max(maxAngle, math.Atan(elevation/dist))
	}
	return maxAngle
}

// AmbientOcclusion returns the openness of pixel (x,y) in [0,1]: 1 for an
// unobstructed surface, sharpened towards 0 as neighbours rise above it.
func AmbientOcclusion(zbuf *raster.DepthBuffer, x, y int) float64 {
	p := mgl64.Vec2{float64(x), float64(y)}
	var total float64
	for i := 0; i < aoDirections; i++ {
		a := float64(i) * math.Pi / 4
		total += math.Pi/2 - MaxElevationAngle(zbuf, p, mgl64.Vec2{math.Cos(a), math.Sin(a)})
	}
	total /= math.Pi / 2 * aoDirections
	return math.Pow(total, aoExponent)
}

// ComputeAO writes the gray AO value of every pixel holding valid depth
// into img. Other pixels are left untouched.
func ComputeAO(zbuf *raster.DepthBuffer, img *tga.Image) {
	for y := 0; y < zbuf.Height; y++ {
		for x := 0; x < zbuf.Width; x++ {
			if !zbuf.Valid(x, y) {
				continue
			}
			v := tga.Clamp255(AmbientOcclusion(zbuf, x, y) * 255)
			img.Set(x, y, tga.Gray(v))
		}
	}
}
