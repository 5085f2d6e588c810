package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/mesh"
	"softrender/internal/texture"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s model.obj ...\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, path := range os.Args[1:] {
		m, err := mesh.Load(path, texture.Files{}, nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
			continue
		}
		inspect(path, m)
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string, m *mesh.Model) {
	fmt.Printf("%s\n", path)
	fmt.Printf("  verts=%d, faces=%d, uvs=%d, normals=%d, normal map=%v\n",
		m.NumVerts(), m.NumFaces(), m.NumUVs(), m.NumNormals(), m.HasNormalMap())

	if m.NumVerts() == 0 {
		return
	}
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < m.NumVerts(); i++ {
		v := m.Vertex(i)
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	size := hi.Sub(lo)
	fmt.Printf("  BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	fmt.Printf("  Size: %.3f x %.3f x %.3f\n", size[0], size[1], size[2])

	// Surface area by dominant face direction
	dirs := []string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}
	areaByDir := map[string]float64{}
	var total float64
	degenerate := 0
	for f := 0; f < m.NumFaces(); f++ {
		a, b, c := m.Vert(f, 0), m.Vert(f, 1), m.Vert(f, 2)
		n := b.Sub(a).Cross(c.Sub(a))
		area := n.Len() / 2
		if area == 0 {
			degenerate++
			continue
		}
		total += area
		axis := 0
		for k := 1; k < 3; k++ {
			if math.Abs(n[k]) > math.Abs(n[axis]) {
				axis = k
			}
		}
		d := dirs[axis*2]
		if n[axis] < 0 {
			d = dirs[axis*2+1]
		}
		areaByDir[d] += area
	}
	fmt.Printf("  Surface area: %.3f (%d degenerate faces)\n", total, degenerate)
	for _, d := range dirs {
		if areaByDir[d] > 0 {
			fmt.Printf("    %s: %.3f\n", d, areaByDir[d])
		}
	}
}
