package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/mathutil"
	"softrender/internal/tga"
)

// degenerateArea is the smallest |2·area| accepted by Barycentric.
const degenerateArea = 1e-2

// Barycentric returns the weights of p with respect to triangle abc in
// screen space. Degenerate triangles yield (-1,1,1) so the caller rejects
// the pixel.
func Barycentric(a, b, c, p mgl64.Vec2) mgl64.Vec3 {
	sx := mgl64.Vec3{c[0] - a[0], b[0] - a[0], a[0] - p[0]}
	sy := mgl64.Vec3{c[1] - a[1], b[1] - a[1], a[1] - p[1]}
	u := sx.Cross(sy)
	if math.Abs(u[2]) > degenerateArea {
		return mgl64.Vec3{1 - (u[0]+u[1])/u[2], u[1] / u[2], u[0] / u[2]}
	}
	return mgl64.Vec3{-1, 1, 1}
}

// Triangle rasterizes one triangle given its clip-space vertices.
//
// Depth test: greater depth is nearer. A pixel is drawn when the stored
// depth is not greater than the fragment depth and the shader keeps it.
func Triangle(clip [3]mgl64.Vec4, sh Shader, img *tga.Image, zbuf *DepthBuffer) {
	var pts [3]mgl64.Vec2
	for i := range clip {
		pts[i] = mathutil.Proj2(mathutil.Proj3(mathutil.Homogenize(clip[i])))
	}

	// Bounding box, clamped to the image
	minX := math.Min(math.Min(pts[0][0], pts[1][0]), pts[2][0])
	maxX := math.Max(math.Max(pts[0][0], pts[1][0]), pts[2][0])
	minY := math.Min(math.Min(pts[0][1], pts[1][1]), pts[2][1])
	maxY := math.Max(math.Max(pts[0][1], pts[1][1]), pts[2][1])
	if s := minX + maxX + minY + maxY; math.IsNaN(s) || math.IsInf(s, 0) {
		return
	}
	w := float64(min(img.Width(), zbuf.Width))
	h := float64(min(img.Height(), zbuf.Height))
	if maxX < 0 || maxY < 0 || minX >= w || minY >= h {
		return
	}
	x0 := int(math.Max(0, math.Floor(minX)))
	x1 := int(math.Min(w-1, math.Floor(maxX)))
	y0 := int(math.Max(0, math.Floor(minY)))
	y1 := int(math.Min(h-1, math.Floor(maxY)))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			bc := Barycentric(pts[0], pts[1], pts[2], mgl64.Vec2{float64(x), float64(y)})
			if bc[0] < 0 || bc[1] < 0 || bc[2] < 0 {
				continue
			}

			// Perspective correction: weights in clip space.
			bcClip := mgl64.Vec3{bc[0] / clip[0][3], bc[1] / clip[1][3], bc[2] / clip[2][3]}
			bcClip = bcClip.Mul(1 / (bcClip[0] + bcClip[1] + bcClip[2]))
			if bcClip[0] < 0 || bcClip[1] < 0 || bcClip[2] < 0 {
				continue
			}

			depth := clip[0][2]*bcClip[0] + clip[1][2]*bcClip[1] + clip[2][2]*bcClip[2]
			idx := zbuf.Index(x, y)
			if zbuf.Data[idx] > depth || math.IsNaN(depth) {
				continue
			}

			c, discard := sh.Fragment(bcClip)
			if discard {
				continue
			}
			zbuf.Data[idx] = depth
			img.Set(x, y, c)
		}
	}
}

// DrawMesh runs the vertex stage for each of nfaces faces and rasterizes the
// resulting triangles into img and zbuf.
func DrawMesh(nfaces int, sh Shader, xf *Transform, img *tga.Image, zbuf *DepthBuffer) {
	var clip [3]mgl64.Vec4
	for i := 0; i < nfaces; i++ {
		for j := 0; j < 3; j++ {
			clip[j] = sh.Vertex(xf, i, j)
		}
		Triangle(clip, sh, img, zbuf)
	}
}
