package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"softrender/internal/batch"
	"softrender/internal/config"
	"softrender/internal/export"
	"softrender/internal/texture"
)

func main() {
	// CLI flags
	outputDir := flag.String("output", "renders", "Output directory")
	format := flag.String("format", "png", "Output format: tga, png, jpeg, webp, bmp or tiff")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	width := flag.Int("width", 0, "Override frame width")
	height := flag.Int("height", 0, "Override frame height")
	shaderName := flag.String("shader", "", "Override shader")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] scene.(json|yaml|toml) ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	scenes := flag.Args()
	if len(scenes) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if _, err := export.ExtToFormat(*format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *workers <= 0 {
		*workers = runtime.NumCPU()
	}

	texCache := texture.NewCache()
	jobs := batch.Jobs(scenes)

	fmt.Printf("Scenes: %d, Workers: %d\n", len(jobs), *workers)
	fmt.Printf("Output: %s\n", *outputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir: *outputDir,
		Format:    *format,
		Resolver:  texCache,
		Overrides: config.Flags{Width: *width, Height: *height, Shader: *shaderName},
		Workers:   *workers,
		Logger:    logger,
	}, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())
	fmt.Printf("Textures: %d cached\n", texCache.Len())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(len(errors), 20)
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(*outputDir, "manifest.json")
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
