package batch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"softrender/internal/config"
	"softrender/internal/scene"
	"softrender/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Format    string // output extension without the dot
	Resolver  texture.Resolver
	Overrides config.Flags // applied to every scene; output paths are ignored
	Workers   int
	Logger    *slog.Logger
}

// Job is one scene file to render.
type Job struct {
	Name  string
	Scene string
}

// Jobs names each scene file after its base name.
func Jobs(paths []string) []Job {
	jobs := make([]Job, len(paths))
	for i, p := range paths {
		jobs[i] = Job{
			Name:  strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
			Scene: p,
		}
	}
	return jobs
}

// Result holds the outcome of rendering one scene.
type Result struct {
	Name    string
	Scene   string
	Outputs []string
	Faces   int
	Elapsed time.Duration
	Success bool
	Error   string
}

// Run renders all jobs using a worker pool. Every scene gets its own
// renderer; only the texture resolver is shared.
func Run(cfg Config, jobs []Job) []Result {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Resolver == nil {
		cfg.Resolver = texture.NewCache()
	}
	if cfg.Format == "" {
		cfg.Format = "tga"
	}

	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					cfg.Logger.Info("progress", "done", p, "total", total,
						"scenes_per_sec", fmt.Sprintf("%.2f", rate))
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, job Job) Result {
	res := Result{Name: job.Name, Scene: job.Scene}
	fail := func(err error) Result {
		res.Error = err.Error()
		cfg.Logger.Warn("scene failed", "name", job.Name, "err", err)
		return res
	}

	sc, err := config.Load(job.Scene)
	if err != nil {
		return fail(err)
	}

	overrides := cfg.Overrides
	overrides.Output, overrides.AOOutput, overrides.DepthOutput, overrides.ZBufOutput = "", "", "", ""
	sc.Output = filepath.Join(cfg.OutputDir, job.Name+"."+cfg.Format)
	if sc.AOOutput != "" {
		sc.AOOutput = filepath.Join(cfg.OutputDir, job.Name+"_ao."+cfg.Format)
	}
	if sc.DepthOutput != "" {
		sc.DepthOutput = filepath.Join(cfg.OutputDir, job.Name+"_depth."+cfg.Format)
	}
	if sc.ZBufOutput != "" {
		sc.ZBufOutput = filepath.Join(cfg.OutputDir, job.Name+"_zbuf."+cfg.Format)
	}
	sc.Resolve(overrides)
	if err := sc.Validate(); err != nil {
		return fail(fmt.Errorf("%s: %w", job.Scene, err))
	}

	out, err := scene.Render(sc, cfg.Resolver, cfg.Logger.With("scene", job.Name))
	if err != nil {
		return fail(err)
	}
	res.Outputs = out.Outputs
	res.Faces = out.Faces
	res.Elapsed = out.Duration
	res.Success = true
	return res
}
