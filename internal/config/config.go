package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"softrender/internal/mathutil"
	"softrender/internal/shader"
)

// Shader modes.
const (
	ShaderPhong = "phong"
)

// Config describes one scene: the meshes, the camera and light, and where
// to write the images.
type Config struct {
	Models []string `json:"models" yaml:"models" toml:"models"`

	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`

	Eye    []float64 `json:"eye" yaml:"eye" toml:"eye"`
	Center []float64 `json:"center" yaml:"center" toml:"center"`
	Up     []float64 `json:"up" yaml:"up" toml:"up"`
	Light  []float64 `json:"light" yaml:"light" toml:"light"`
	Yaw    float64   `json:"yaw" yaml:"yaw" toml:"yaw"` // degrees around the Y axis through Center

	Shader string `json:"shader" yaml:"shader" toml:"shader"`

	Output      string `json:"output" yaml:"output" toml:"output"`
	AOOutput    string `json:"ao_output" yaml:"ao_output" toml:"ao_output"`
	DepthOutput string `json:"depth_output" yaml:"depth_output" toml:"depth_output"`
	ZBufOutput  string `json:"zbuffer_output" yaml:"zbuffer_output" toml:"zbuffer_output"`

	Shading Shading `json:"shading" yaml:"shading" toml:"shading"`
}

// Shading overrides the Phong lighting constants. Unset fields keep the
// defaults.
type Shading struct {
	Ambient    *float64 `json:"ambient" yaml:"ambient" toml:"ambient"`
	Diffuse    *float64 `json:"diffuse" yaml:"diffuse" toml:"diffuse"`
	Specular   *float64 `json:"specular" yaml:"specular" toml:"specular"`
	Glow       *float64 `json:"glow" yaml:"glow" toml:"glow"`
	ShadowBias *float64 `json:"shadow_bias" yaml:"shadow_bias" toml:"shadow_bias"`
	ShadowDim  *float64 `json:"shadow_dim" yaml:"shadow_dim" toml:"shadow_dim"`
}

// Load reads a scene file. The format follows the extension: .json, .yaml,
// .yml or .toml. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Model paths are relative to the scene file.
	dir := filepath.Dir(path)
	for i, m := range cfg.Models {
		if !filepath.IsAbs(m) {
			cfg.Models[i] = filepath.Join(dir, m)
		}
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Models      []string
	Width       int
	Height      int
	Yaw         float64
	Shader      string
	Output      string
	AOOutput    string
	DepthOutput string
	ZBufOutput  string
}

// Resolve applies flag overrides, then fills every unset field with its
// default. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if len(flags.Models) > 0 {
		c.Models = flags.Models
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Yaw != 0 {
		c.Yaw = flags.Yaw
	}
	if flags.Shader != "" {
		c.Shader = flags.Shader
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.AOOutput != "" {
		c.AOOutput = flags.AOOutput
	}
	if flags.DepthOutput != "" {
		c.DepthOutput = flags.DepthOutput
	}
	if flags.ZBufOutput != "" {
		c.ZBufOutput = flags.ZBufOutput
	}

	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 800
	}
	if c.Eye == nil {
		c.Eye = []float64{1, 1, 3}
	}
	if c.Center == nil {
		c.Center = []float64{0, 0, 0}
	}
	if c.Up == nil {
		c.Up = []float64{0, 1, 0}
	}
	if c.Light == nil {
		c.Light = []float64{1, 1, 1}
	}
	if c.Shader == "" {
		c.Shader = ShaderPhong
	}
	c.Shader = strings.ToLower(c.Shader)
	if c.Output == "" {
		c.Output = "output.tga"
	}
}

var shaders = map[string]bool{
	ShaderPhong:        true,
	shader.NameFlat:    true,
	shader.NameGouraud: true,
	shader.NameToon:    true,
	shader.NameDepth:   true,
}

// Validate reports the first setting a render cannot proceed with.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("config: no models")
	}
	if c.Width <= 0 || c.Height <= 0 || c.Width > math.MaxUint16 || c.Height > math.MaxUint16 {
		return fmt.Errorf("config: invalid size %dx%d", c.Width, c.Height)
	}
	for _, v := range []struct {
		name string
		val  []float64
	}{{"eye", c.Eye}, {"center", c.Center}, {"up", c.Up}, {"light", c.Light}} {
		if len(v.val) != 3 {
			return fmt.Errorf("config: %s needs 3 components, got %d", v.name, len(v.val))
		}
		for _, f := range v.val {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("config: %s is not finite", v.name)
			}
		}
	}
	if c.EyeVec().Sub(c.CenterVec()).Len() == 0 {
		return fmt.Errorf("config: eye and center coincide")
	}
	if c.UpVec().Cross(c.EyeVec().Sub(c.CenterVec())).Len() == 0 {
		return fmt.Errorf("config: up is parallel to the view direction")
	}
	if c.LightVec().Sub(c.CenterVec()).Len() == 0 {
		return fmt.Errorf("config: light and center coincide")
	}
	if c.UpVec().Cross(c.LightVec().Sub(c.CenterVec())).Len() == 0 {
		return fmt.Errorf("config: up is parallel to the light direction")
	}
	if !shaders[c.Shader] {
		return fmt.Errorf("config: unknown shader %q", c.Shader)
	}
	return nil
}

func vec3(v []float64) mgl64.Vec3 {
	var out mgl64.Vec3
	copy(out[:], v)
	return out
}

func (c *Config) CenterVec() mgl64.Vec3 { return vec3(c.Center) }
func (c *Config) UpVec() mgl64.Vec3     { return vec3(c.Up) }
func (c *Config) LightVec() mgl64.Vec3  { return vec3(c.Light) }

// EyeVec returns the eye position after the yaw orbit around Center.
func (c *Config) EyeVec() mgl64.Vec3 {
	return mathutil.OrbitEye(vec3(c.Eye), c.CenterVec(), c.Yaw)
}

// Params returns the Phong constants with the Shading overrides applied.
func (c *Config) Params() shader.Params {
	p := shader.DefaultParams()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Ambient, c.Shading.Ambient)
	set(&p.Diffuse, c.Shading.Diffuse)
	set(&p.Specular, c.Shading.Specular)
	set(&p.Glow, c.Shading.Glow)
	set(&p.ShadowBias, c.Shading.ShadowBias)
	set(&p.ShadowDim, c.Shading.ShadowDim)
	return p
}
