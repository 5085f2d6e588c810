package mathutil

import "github.com/go-gl/mathgl/mgl64"

// InvertTranspose returns (m⁻¹)ᵀ, the matrix that carries normals through m.
// A singular m produces the zero matrix.
func InvertTranspose(m mgl64.Mat4) mgl64.Mat4 {
	return m.Inv().Transpose()
}

// IsIdentity checks if the matrix is approximately identity.
func IsIdentity(m mgl64.Mat4) bool {
	return m.ApproxEqualThreshold(mgl64.Ident4(), 1e-8)
}
