// Package render runs the multi-pass pipeline: a depth-only pass from the
// camera to derive ambient occlusion, an orthographic depth pass from the
// light for shadows, and a final Phong pass into the frame.
package render

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"softrender/internal/raster"
	"softrender/internal/shader"
	"softrender/internal/tga"
)

// Camera places the viewer and the light. Light is a direction; the shadow
// pass looks from Light towards Center.
type Camera struct {
	Eye    mgl64.Vec3
	Center mgl64.Vec3
	Up     mgl64.Vec3
	Light  mgl64.Vec3
}

// Renderer owns the buffers shared by the passes. They persist across
// Render calls, so several meshes drawn into one frame occlude each other.
// A Renderer is not safe for concurrent use.
type Renderer struct {
	width, height int

	zbuf    *raster.DepthBuffer // final pass
	aoDepth *raster.DepthBuffer // camera depth for the AO scan
	shadow  *raster.DepthBuffer // light-space depth

	ao    *tga.Image
	depth *tga.Image

	params shader.Params
	log    *slog.Logger
}

type Option func(*Renderer)

func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

func WithParams(p shader.Params) Option {
	return func(r *Renderer) { r.params = p }
}

// New allocates a renderer for w×h frames with every depth buffer empty.
func New(w, h int, opts ...Option) *Renderer {
	r := &Renderer{
		width:   w,
		height:  h,
		zbuf:    raster.NewDepthBuffer(w, h),
		aoDepth: raster.NewDepthBuffer(w, h),
		shadow:  raster.NewDepthBuffer(w, h),
		ao:      tga.New(w, h, tga.RGBBytes),
		depth:   tga.New(w, h, tga.RGBBytes),
		params:  shader.DefaultParams(),
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Renderer) AOImage() *tga.Image               { return r.ao }
func (r *Renderer) DepthImage() *tga.Image            { return r.depth }
func (r *Renderer) ZBuffer() *raster.DepthBuffer      { return r.zbuf }
func (r *Renderer) ShadowBuffer() *raster.DepthBuffer { return r.shadow }

func (r *Renderer) checkFrame(frame *tga.Image) error {
	if frame == nil {
		return fmt.Errorf("render: nil frame")
	}
	if frame.Width() != r.width || frame.Height() != r.height {
		return fmt.Errorf("render: frame %dx%d does not match renderer %dx%d",
			frame.Width(), frame.Height(), r.width, r.height)
	}
	return nil
}

func (r *Renderer) cameraTransform(cam Camera) *raster.Transform {
	return raster.NewTransform(cam.Eye, cam.Center, cam.Up,
		raster.DefaultViewport(r.width, r.height), raster.PerspectiveCoeff(cam.Eye, cam.Center))
}

func (r *Renderer) lightTransform(cam Camera) *raster.Transform {
	return raster.NewTransform(cam.Light, cam.Center, cam.Up,
		raster.DefaultViewport(r.width, r.height), 0)
}

// Render draws m into frame with the full pipeline.
func (r *Renderer) Render(m shader.Model, frame *tga.Image, cam Camera) error {
	if err := r.checkFrame(frame); err != nil {
		return err
	}
	camXF := r.cameraTransform(cam)

	start := time.Now()
	raster.DrawMesh(m.NumFaces(), shader.NewZ(m), camXF, r.ao, r.aoDepth)
	ComputeAO(r.aoDepth, r.ao)
	r.log.Info("ambient occlusion", "faces", m.NumFaces(), "took", time.Since(start))

	start = time.Now()
	lightXF := r.lightTransform(cam)
	raster.DrawMesh(m.NumFaces(), shader.NewDepth(m), lightXF, r.depth, r.shadow)
	r.log.Info("shadow map", "took", time.Since(start))

	start = time.Now()
	sh := shader.NewPhong(m, camXF, cam.Light, lightXF, r.shadow, r.ao, r.params)
	raster.DrawMesh(m.NumFaces(), sh, camXF, frame, r.zbuf)
	r.log.Info("final pass", "took", time.Since(start))
	return nil
}

// Draw runs a single camera pass of sh into frame using the final depth
// buffer.
func (r *Renderer) Draw(m shader.Model, frame *tga.Image, cam Camera, sh raster.Shader) error {
	if err := r.checkFrame(frame); err != nil {
		return err
	}
	start := time.Now()
	raster.DrawMesh(m.NumFaces(), sh, r.cameraTransform(cam), frame, r.zbuf)
	r.log.Info("single pass", "faces", m.NumFaces(), "took", time.Since(start))
	return nil
}
