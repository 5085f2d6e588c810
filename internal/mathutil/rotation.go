package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// OrbitEye rotates eye around center about the Y axis by yaw degrees.
func OrbitEye(eye, center mgl64.Vec3, yaw float64) mgl64.Vec3 {
	if yaw == 0 {
		return eye
	}
	r := mgl64.Rotate3DY(Deg2Rad(yaw))
	return center.Add(r.Mul3x1(eye.Sub(center)))
}
