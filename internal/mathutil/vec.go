package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Embed4 raises a 3D vector to homogeneous coordinates.
// fill is 1 for points and 0 for directions.
func Embed4(v mgl64.Vec3, fill float64) mgl64.Vec4 {
	return mgl64.Vec4{v[0], v[1], v[2], fill}
}

// Proj3 drops the w component without dividing.
func Proj3(v mgl64.Vec4) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func Proj2(v mgl64.Vec3) mgl64.Vec2 {
	return mgl64.Vec2{v[0], v[1]}
}

// Homogenize divides every component by w. A zero w yields Inf/NaN.
func Homogenize(v mgl64.Vec4) mgl64.Vec4 {
	return v.Mul(1 / v[3])
}
