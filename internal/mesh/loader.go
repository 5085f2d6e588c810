package mesh

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/texture"
	"softrender/internal/tga"
)

// Texture map suffixes looked up next to the model file.
const (
	DiffuseSuffix  = "_diffuse.tga"
	NormalSuffix   = "_nm_tangent.tga"
	NormalFallback = "_nm.tga"
	SpecularSuffix = "_spec.tga"
	GlowSuffix     = "_glow.tga"
)

// Load reads a Wavefront OBJ file and the texture maps stored beside it.
// Missing maps are not an error; sampling falls back to neutral values.
// A nil log uses slog.Default.
func Load(path string, res texture.Resolver, log *slog.Logger) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("mesh: %s: %w", path, err)
	}

	if res == nil {
		res = texture.Files{}
	}
	if log == nil {
		log = slog.Default()
	}
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	m.SetMaps(
		lookup(log, res, stem, DiffuseSuffix),
		lookup(log, res, stem, NormalSuffix, NormalFallback),
		lookup(log, res, stem, SpecularSuffix),
		lookup(log, res, stem, GlowSuffix),
	)

	log.Info("loaded mesh", "path", path, "verts", m.NumVerts(), "faces", m.NumFaces(),
		"uvs", m.NumUVs(), "normals", m.NumNormals(), "normal_map", m.HasNormalMap())
	return m, nil
}

func lookup(log *slog.Logger, res texture.Resolver, stem string, suffixes ...string) *tga.Image {
	for _, s := range suffixes {
		if img := res.Resolve(stem + s); img != nil {
			return img
		}
	}
	log.Debug("texture map not found", "map", stem+suffixes[0])
	return nil
}

// Parse reads OBJ directives from r: v, vt, vn and f. Other lines are
// ignored. Polygons are split into a triangle fan.
func Parse(r io.Reader) (*Model, error) {
	m := &Model{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v mgl64.Vec3
			v, err = parseVec3(fields[1:])
			m.verts = append(m.verts, v)
		case "vn":
			var v mgl64.Vec3
			v, err = parseVec3(fields[1:])
			m.norms = append(m.norms, v)
		case "vt":
			var v mgl64.Vec2
			// A third coordinate is allowed and ignored.
			v, err = parseVec2(fields[1:])
			m.uvs = append(m.uvs, v)
		case "f":
			err = m.parseFace(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, m.validate()
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func parseVec3(fields []string) (mgl64.Vec3, error) {
	f, err := parseFloats(fields, 3)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3{f[0], f[1], f[2]}, nil
}

func parseVec2(fields []string) (mgl64.Vec2, error) {
	f, err := parseFloats(fields, 2)
	if err != nil {
		return mgl64.Vec2{}, err
	}
	return mgl64.Vec2{f[0], f[1]}, nil
}

func (m *Model) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs 3 vertices, got %d", len(fields))
	}
	corners := make([]Corner, len(fields))
	for i, tok := range fields {
		c, err := m.parseCorner(tok)
		if err != nil {
			return err
		}
		corners[i] = c
	}
	for i := 1; i+1 < len(corners); i++ {
		m.faces = append(m.faces, [3]Corner{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

// parseCorner accepts v, v/vt, v//vn and v/vt/vn.
func (m *Model) parseCorner(tok string) (Corner, error) {
	c := Corner{V: -1, T: -1, N: -1}
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return c, fmt.Errorf("bad face vertex %q", tok)
	}
	counts := [3]int{len(m.verts), len(m.uvs), len(m.norms)}
	dst := [3]*int{&c.V, &c.T, &c.N}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return c, fmt.Errorf("bad face vertex %q", tok)
			}
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil {
			return c, fmt.Errorf("bad face vertex %q: %w", tok, err)
		}
		switch {
		case idx > 0:
			*dst[i] = idx - 1 // obj indices start from 1
		case idx < 0:
			if counts[i]+idx < 0 {
				return c, fmt.Errorf("bad face vertex %q: relative index out of range", tok)
			}
			*dst[i] = counts[i] + idx
		default:
			return c, fmt.Errorf("bad face vertex %q: zero index", tok)
		}
	}
	return c, nil
}

func (m *Model) validate() error {
	for i, f := range m.faces {
		for _, c := range f {
			if c.V < 0 || c.V >= len(m.verts) ||
				c.T >= len(m.uvs) || c.N >= len(m.norms) {
				return fmt.Errorf("face %d references a missing vertex attribute", i)
			}
		}
	}
	return nil
}
