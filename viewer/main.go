package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
	"github.com/df07/go-phong-raytracer/viewer/session"
)

func main() {
	camera := renderer.DefaultCameraConfig()
	sampling := renderer.DefaultSamplingConfig()

	width := flag.Int("width", camera.Width, "Initial window width")
	height := flag.Int("height", camera.Height, "Initial window height")
	mode := flag.String("mode", sampling.Mode.String(), "Render mode: 'basic' or 'sampled'")
	samples := flag.Int("samples", sampling.SamplesPerPixel, "Jittered samples per pixel in sampled mode")
	seed := flag.Int64("seed", sampling.Seed, "Base random seed for jitter")
	workers := flag.Int("workers", sampling.NumWorkers, "Parallel workers (0 = CPU count)")
	scenePath := flag.String("scene", "", "JSON scene description (default: built-in reference scene)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	m, err := renderer.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	sampling.Mode = m
	sampling.SamplesPerPixel = *samples
	sampling.Seed = *seed
	sampling.NumWorkers = *workers

	cfg := scene.DefaultConfig()
	if m == renderer.ModeBasic {
		cfg.Shading = scene.BasicShading()
	}
	if *scenePath != "" {
		if cfg, err = loaders.LoadScene(*scenePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	s, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := runWindow(session.New(s, camera, sampling), *width, *height); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
