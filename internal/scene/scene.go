// Package scene renders one configured scene end to end: load the meshes,
// run the selected shader, and write the images.
package scene

import (
	"fmt"
	"log/slog"
	"time"

	"softrender/internal/config"
	"softrender/internal/export"
	"softrender/internal/mesh"
	"softrender/internal/raster"
	"softrender/internal/render"
	"softrender/internal/shader"
	"softrender/internal/texture"
	"softrender/internal/tga"
)

// Result summarizes a finished scene.
type Result struct {
	Outputs  []string
	Meshes   int
	Faces    int
	Duration time.Duration
}

// Render draws cfg and saves its outputs. cfg must already be resolved and
// valid. res may be shared between concurrent calls.
func Render(cfg config.Config, res texture.Resolver, log *slog.Logger) (Result, error) {
	if log == nil {
		log = slog.Default()
	}
	start := time.Now()

	cam := render.Camera{
		Eye:    cfg.EyeVec(),
		Center: cfg.CenterVec(),
		Up:     cfg.UpVec(),
		Light:  cfg.LightVec(),
	}
	r := render.New(cfg.Width, cfg.Height,
		render.WithLogger(log), render.WithParams(cfg.Params()))
	frame := tga.New(cfg.Width, cfg.Height, tga.RGBBytes)

	var result Result
	for _, path := range cfg.Models {
		m, err := mesh.Load(path, res, log)
		if err != nil {
			return result, fmt.Errorf("scene: %w", err)
		}
		log.Debug("rendering mesh", "path", path, "shader", cfg.Shader)

		if cfg.Shader == config.ShaderPhong {
			err = r.Render(m, frame, cam)
		} else {
			var sh raster.Shader
			sh, err = shader.Simple(cfg.Shader, m, cam.Light)
			if err == nil {
				err = r.Draw(m, frame, cam, sh)
			}
		}
		if err != nil {
			return result, fmt.Errorf("scene: %s: %w", path, err)
		}
		result.Meshes++
		result.Faces += m.NumFaces()
	}

	outputs := []struct {
		path string
		img  *tga.Image
	}{
		{cfg.Output, frame},
		{cfg.AOOutput, r.AOImage()},
		{cfg.DepthOutput, r.DepthImage()},
		{cfg.ZBufOutput, nil},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if o.img == nil {
			o.img = r.ZBuffer().ToImage()
		}
		// Rendered rows grow upwards; image files store the top row first.
		o.img.FlipVertical()
		if err := export.Save(o.path, o.img); err != nil {
			return result, fmt.Errorf("scene: %w", err)
		}
		result.Outputs = append(result.Outputs, o.path)
	}

	result.Duration = time.Since(start)
	log.Info("scene done", "meshes", result.Meshes, "faces", result.Faces,
		"outputs", len(result.Outputs), "took", result.Duration)
	return result, nil
}
