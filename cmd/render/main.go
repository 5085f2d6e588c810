package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"softrender/internal/config"
	"softrender/internal/scene"
	"softrender/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a scene file (.json, .yaml, .toml)")
	width := flag.Int("width", 0, "Frame width (default: 800)")
	height := flag.Int("height", 0, "Frame height (default: 800)")
	yaw := flag.Float64("yaw", 0, "Rotate the eye around the center, in degrees")
	shaderName := flag.String("shader", "", "phong, gouraud, toon, flat or depth (default: phong)")
	output := flag.String("output", "", "Output image, format by extension (default: output.tga)")
	aoOutput := flag.String("ao", "", "Also write the ambient occlusion image")
	depthOutput := flag.String("depth", "", "Also write the light-space depth image")
	zbufOutput := flag.String("zbuffer", "", "Also write the camera depth buffer as grayscale")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [model.obj ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Models:      flag.Args(),
		Width:       *width,
		Height:      *height,
		Yaw:         *yaw,
		Shader:      *shaderName,
		Output:      *output,
		AOOutput:    *aoOutput,
		DepthOutput: *depthOutput,
		ZBufOutput:  *zbufOutput,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	fmt.Printf("Models: %s\n", strings.Join(cfg.Models, ", "))
	fmt.Printf("Frame: %dx%d, shader: %s\n", cfg.Width, cfg.Height, cfg.Shader)

	res, err := scene.Render(cfg, texture.NewCache(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done in %.1fs, %d faces\n", res.Duration.Seconds(), res.Faces)
	for _, o := range res.Outputs {
		fmt.Printf("Wrote %s\n", o)
	}
}
