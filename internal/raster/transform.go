package raster

import (
	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/mathutil"
)

// DepthRange is the span the viewport maps clip-space z onto, matching the
// 8-bit color channels.
const DepthRange = 255.0

// Rect is a pixel-space viewport box.
type Rect struct {
	X, Y, W, H int
}

// DefaultViewport centres a box covering three quarters of a w×h image.
func DefaultViewport(w, h int) Rect {
	return Rect{X: w / 8, Y: h / 8, W: w * 3 / 4, H: h * 3 / 4}
}

// LookAt builds the view matrix for a camera at eye looking at center.
// up must not be parallel to eye-center.
func LookAt(eye, center, up mgl64.Vec3) mgl64.Mat4 {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()

	minv := mgl64.Ident4()
	tr := mgl64.Ident4()
	for i := 0; i < 3; i++ {
		minv.Set(0, i, x[i])
		minv.Set(1, i, y[i])
		minv.Set(2, i, z[i])
		tr.Set(i, 3, -center[i])
	}
	return minv.Mul4(tr)
}

// Projection returns the identity with [3][2] = coeff, giving
// w' = 1 + z*coeff. coeff = 0 is an orthographic projection.
func Projection(coeff float64) mgl64.Mat4 {
	m := mgl64.Ident4()
	m.Set(3, 2, coeff)
	return m
}

// PerspectiveCoeff is the projection coefficient -1/c for a camera at
// distance c from its target.
func PerspectiveCoeff(eye, center mgl64.Vec3) float64 {
	return -1 / eye.Sub(center).Len()
}

// Viewport maps the clip cube to [x,x+w]×[y,y+h] and z to [0,DepthRange].
func Viewport(r Rect) mgl64.Mat4 {
	m := mgl64.Ident4()
	m.Set(0, 3, float64(r.X)+float64(r.W)/2)
	m.Set(1, 3, float64(r.Y)+float64(r.H)/2)
	m.Set(2, 3, DepthRange/2)
	m.Set(0, 0, float64(r.W)/2)
	m.Set(1, 1, float64(r.H)/2)
	m.Set(2, 2, DepthRange/2)
	return m
}

// Transform is the immutable camera configuration of one render pass. It is
// handed to every vertex stage of the pass.
type Transform struct {
	modelView  mgl64.Mat4
	projection mgl64.Mat4
	viewport   mgl64.Mat4

	pmv    mgl64.Mat4 // Projection·ModelView
	pmvIT  mgl64.Mat4 // (Projection·ModelView)⁻ᵀ
	mvp    mgl64.Mat4 // Viewport·Projection·ModelView
	mvpInv mgl64.Mat4
}

// NewTransform builds the stack in order: look-at, viewport, projection.
func NewTransform(eye, center, up mgl64.Vec3, vp Rect, coeff float64) *Transform {
	xf := &Transform{
		modelView:  LookAt(eye, center, up),
		viewport:   Viewport(vp),
		projection: Projection(coeff),
	}
	xf.pmv = xf.projection.Mul4(xf.modelView)
	xf.pmvIT = mathutil.InvertTranspose(xf.pmv)
	xf.mvp = xf.viewport.Mul4(xf.pmv)
	xf.mvpInv = xf.mvp.Inv()
	return xf
}

func (xf *Transform) ModelView() mgl64.Mat4  { return xf.modelView }
func (xf *Transform) Projection() mgl64.Mat4 { return xf.projection }
func (xf *Transform) Viewport() mgl64.Mat4   { return xf.viewport }

// PMV is Projection·ModelView, the transform into normalised device space.
func (xf *Transform) PMV() mgl64.Mat4 { return xf.pmv }

// NormalMatrix carries normals along with PMV.
func (xf *Transform) NormalMatrix() mgl64.Mat4 { return xf.pmvIT }

// MVP is Viewport·Projection·ModelView, model space to screen space.
func (xf *Transform) MVP() mgl64.Mat4 { return xf.mvp }

// MVPInverse maps screen space back to homogeneous model space.
func (xf *Transform) MVPInverse() mgl64.Mat4 { return xf.mvpInv }

// Clip transforms a model-space point to clip space.
func (xf *Transform) Clip(v mgl64.Vec3) mgl64.Vec4 {
	return xf.mvp.Mul4x1(mathutil.Embed4(v, 1))
}
