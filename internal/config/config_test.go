package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softrender/internal/shader"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFormats(t *testing.T) {
	files := map[string]string{
		"scene.json": `{"models": ["head.obj"], "width": 320, "eye": [0, 0, 4],
			"shader": "toon", "shading": {"ambient": 5}}`,
		"scene.yaml": "models: [head.obj]\nwidth: 320\neye: [0, 0, 4]\nshader: toon\nshading:\n  ambient: 5\n",
		"scene.toml": "models = ['head.obj']\nwidth = 320\neye = [0.0, 0.0, 4.0]\nshader = 'toon'\n[shading]\nambient = 5.0\n",
	}
	for name, body := range files {
		path := write(t, name, body)
		cfg, err := Load(path)
		require.NoError(t, err, name)

		assert.Equal(t, []string{filepath.Join(filepath.Dir(path), "head.obj")}, cfg.Models, name)
		assert.Equal(t, 320, cfg.Width, name)
		assert.Equal(t, []float64{0, 0, 4}, cfg.Eye, name)
		assert.Equal(t, "toon", cfg.Shader, name)
		require.NotNil(t, cfg.Shading.Ambient, name)
		assert.Equal(t, 5.0, *cfg.Shading.Ambient, name)
		assert.Nil(t, cfg.Shading.Glow, name)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(write(t, "scene.ini", "models=a"))
	assert.Error(t, err)

	_, err = Load(write(t, "scene.json", "{not json"))
	assert.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{Models: []string{"a.obj"}})
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
	assert.Equal(t, mgl64.Vec3{1, 1, 3}, cfg.EyeVec())
	assert.Equal(t, mgl64.Vec3{}, cfg.CenterVec())
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, cfg.UpVec())
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, cfg.LightVec())
	assert.Equal(t, ShaderPhong, cfg.Shader)
	assert.Equal(t, "output.tga", cfg.Output)
	assert.Equal(t, shader.DefaultParams(), cfg.Params())
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{Models: []string{"file.obj"}, Width: 100, Shader: "flat", Output: "a.png"}
	cfg.Resolve(Flags{Width: 200, Shader: "GOURAUD", Output: "b.webp", Yaw: 90})

	assert.Equal(t, []string{"file.obj"}, cfg.Models)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, "gouraud", cfg.Shader)
	assert.Equal(t, "b.webp", cfg.Output)

	// A quarter turn moves the default eye (1,1,3) to (3,1,-1).
	eye := cfg.EyeVec()
	assert.InDelta(t, 3, eye[0], 1e-9)
	assert.InDelta(t, 1, eye[1], 1e-9)
	assert.InDelta(t, -1, eye[2], 1e-9)
}

func TestParamsOverride(t *testing.T) {
	dim := 0.5
	cfg := Config{Shading: Shading{ShadowDim: &dim}}
	p := cfg.Params()
	assert.Equal(t, 0.5, p.ShadowDim)
	assert.Equal(t, shader.DefaultParams().Ambient, p.Ambient)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Resolve(Flags{Models: []string{"a.obj"}})
		return c
	}

	cases := map[string]func(*Config){
		"no models":      func(c *Config) { c.Models = nil },
		"bad size":       func(c *Config) { c.Width = -1 },
		"oversized":      func(c *Config) { c.Height = 70000 },
		"short vector":   func(c *Config) { c.Eye = []float64{1, 2} },
		"eye on center":  func(c *Config) { c.Eye = []float64{0, 0, 0} },
		"up along view":  func(c *Config) { c.Eye = []float64{0, 5, 0} },
		"light centered": func(c *Config) { c.Light = []float64{0, 0, 0} },
		"light along up": func(c *Config) { c.Light = []float64{0, 1, 0} },
		"unknown shader": func(c *Config) { c.Shader = "raytrace" },
	}
	for name, mutate := range cases {
		c := valid()
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}
}
