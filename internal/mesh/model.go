package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/tga"
)

// Corner indexes the position, texture coordinate and normal of one face
// vertex. Absent attributes are -1.
type Corner struct {
	V, T, N int
}

// Model is an immutable triangle mesh with optional texture maps.
type Model struct {
	verts []mgl64.Vec3
	uvs   []mgl64.Vec2
	norms []mgl64.Vec3
	faces [][3]Corner

	diffuse   *tga.Image
	normalMap *tga.Image
	specular  *tga.Image
	glow      *tga.Image
}

func (m *Model) NumVerts() int   { return len(m.verts) }
func (m *Model) NumFaces() int   { return len(m.faces) }
func (m *Model) NumUVs() int     { return len(m.uvs) }
func (m *Model) NumNormals() int { return len(m.norms) }

// Face returns the corners of face i.
func (m *Model) Face(i int) [3]Corner {
	return m.faces[i]
}

// Vertex returns position i.
func (m *Model) Vertex(i int) mgl64.Vec3 {
	return m.verts[i]
}

// Vert returns the position of the nth vertex of a face.
func (m *Model) Vert(face, nth int) mgl64.Vec3 {
	return m.verts[m.faces[face][nth].V]
}

// UV returns the texture coordinate of the nth vertex of a face, or the
// origin when the face has none.
func (m *Model) UV(face, nth int) mgl64.Vec2 {
	t := m.faces[face][nth].T
	if t < 0 {
		return mgl64.Vec2{}
	}
	return m.uvs[t]
}

// Normal returns the unit normal of the nth vertex of a face. Faces without
// normals use the geometric face normal.
func (m *Model) Normal(face, nth int) mgl64.Vec3 {
	n := m.faces[face][nth].N
	if n < 0 {
		f := m.faces[face]
		a, b, c := m.verts[f[0].V], m.verts[f[1].V], m.verts[f[2].V]
		return b.Sub(a).Cross(c.Sub(a)).Normalize()
	}
	return m.norms[n].Normalize()
}

func (m *Model) HasNormalMap() bool { return m.normalMap != nil }

func texel(img *tga.Image, uv mgl64.Vec2) tga.Color {
	return img.Get(int(uv[0]*float64(img.Width())), int(uv[1]*float64(img.Height())))
}

// SampleDiffuse returns the diffuse color at uv, white without a map.
func (m *Model) SampleDiffuse(uv mgl64.Vec2) tga.Color {
	if m.diffuse == nil {
		return tga.White
	}
	return texel(m.diffuse, uv)
}

// SampleNormal decodes a tangent-space normal in [-1,1]³. Without a normal
// map the unperturbed normal (0,0,1) is returned.
func (m *Model) SampleNormal(uv mgl64.Vec2) mgl64.Vec3 {
	if m.normalMap == nil {
		return mgl64.Vec3{0, 0, 1}
	}
	c := texel(m.normalMap, uv)
	return mgl64.Vec3{
		float64(c.R)/255*2 - 1,
		float64(c.G)/255*2 - 1,
		float64(c.B)/255*2 - 1,
	}
}

// SampleSpecular returns the specular exponent at uv; 0 means no highlight.
func (m *Model) SampleSpecular(uv mgl64.Vec2) float64 {
	if m.specular == nil {
		return 0
	}
	return float64(texel(m.specular, uv).B)
}

// SampleGlow returns the emissive color at uv, black without a map.
func (m *Model) SampleGlow(uv mgl64.Vec2) tga.Color {
	if m.glow == nil {
		return tga.Black
	}
	return texel(m.glow, uv)
}

// SetMaps attaches texture maps; nil leaves a map unset.
func (m *Model) SetMaps(diffuse, normal, specular, glow *tga.Image) {
	m.diffuse = diffuse
	m.normalMap = normal
	m.specular = specular
	m.glow = glow
}
