package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/output"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	width, height  int
	mode           string
	samples        int
	gamma          float64
	noShadows      bool
	shadowsToLight bool
	seed           int64
	workers        int
	scenePath      string
	writeScene     string
	out            string
	compare        string
	verbose        bool
	help           bool

	set map[string]bool // flags given explicitly
}

func parseFlags(args []string, errOut io.Writer) (options, error) {
	defaults := renderer.DefaultSamplingConfig()
	camera := renderer.DefaultCameraConfig()

	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.IntVar(&opts.width, "width", camera.Width, "Image width in pixels")
	fs.IntVar(&opts.height, "height", camera.Height, "Image height in pixels")
	fs.StringVar(&opts.mode, "mode", defaults.Mode.String(), "Render mode: 'basic' (center ray, no shadows, no gamma) or 'sampled'")
	fs.IntVar(&opts.samples, "samples", defaults.SamplesPerPixel, "Jittered samples per pixel in sampled mode")
	fs.Float64Var(&opts.gamma, "gamma", float64(scene.DefaultShading().Gamma), "Gamma exponent (1 disables correction)")
	fs.BoolVar(&opts.noShadows, "no-shadows", false, "Disable hard shadows")
	fs.BoolVar(&opts.shadowsToLight, "shadows-to-light", false, "Ignore occluders beyond the light")
	fs.Int64Var(&opts.seed, "seed", defaults.Seed, "Base random seed for jitter")
	fs.IntVar(&opts.workers, "workers", defaults.NumWorkers, "Parallel workers (0 = CPU count)")
	fs.StringVar(&opts.scenePath, "scene", "", "JSON scene description (default: built-in reference scene)")
	fs.StringVar(&opts.writeScene, "write-scene", "", "Write the scene description as JSON to this path and exit")
	fs.StringVar(&opts.out, "out", "", "Output image (.png, .jpg, .bmp, .tiff); default output/render_<timestamp>.png")
	fs.StringVar(&opts.compare, "compare", "", "Reference image to compare the render against (prints RMSE)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %v", fs.Args())
		fmt.Fprintln(errOut, err)
		return opts, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if opts.help {
		fmt.Fprintln(errOut, "Phong Raytracer")
		fmt.Fprintln(errOut, "Usage: raytracer [options]")
		fmt.Fprintln(errOut)
		fmt.Fprintln(errOut, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(errOut)
		fmt.Fprintln(errOut, "Output will be saved to output/render_<timestamp>.png unless -out is given")
	}
	return opts, nil
}

// sceneConfig loads the scene description and applies the shading flags.
// Without a scene file the mode picks the shading preset.
func sceneConfig(opts options, mode renderer.Mode) (scene.Config, error) {
	var cfg scene.Config
	if opts.scenePath != "" {
		loaded, err := loaders.LoadScene(opts.scenePath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	} else {
		cfg = scene.DefaultConfig()
		if mode == renderer.ModeBasic {
			cfg.Shading = scene.BasicShading()
		}
	}

	if opts.set["gamma"] {
		cfg.Shading.Gamma = float32(opts.gamma)
	}
	if opts.set["no-shadows"] {
		cfg.Shading.Shadows = !opts.noShadows
	}
	if opts.set["shadows-to-light"] {
		cfg.Shading.ShadowsToLightOnly = opts.shadowsToLight
	}
	return cfg, nil
}

// newRaytracer builds the scene, camera and raytracer described by the options
func newRaytracer(opts options) (*renderer.Raytracer, error) {
	mode, err := renderer.ParseMode(opts.mode)
	if err != nil {
		return nil, err
	}

	cfg, err := sceneConfig(opts, mode)
	if err != nil {
		return nil, err
	}
	s, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Width = opts.width
	cameraConfig.Height = opts.height
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}

	sampling := renderer.DefaultSamplingConfig()
	sampling.Mode = mode
	sampling.SamplesPerPixel = opts.samples
	sampling.Seed = opts.seed
	sampling.NumWorkers = opts.workers

	return renderer.NewRaytracer(s, camera, sampling)
}

func outputPath(opts options, now time.Time) string {
	if opts.out != "" {
		return opts.out
	}
	return filepath.Join("output", fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	rt, err := newRaytracer(opts)
	if err != nil {
		return err
	}

	if opts.writeScene != "" {
		f, err := os.Create(opts.writeScene)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := loaders.WriteScene(f, rt.Scene().Config()); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Scene written to %s\n", opts.writeScene)
		return nil
	}

	fmt.Fprintf(stdout, "Rendering %dx%d (%s mode, %d surfaces)...\n",
		opts.width, opts.height, rt.Config().Mode, len(rt.Scene().Surfaces()))

	fb, stats, err := rt.Render(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Render completed in %v\n", stats.Duration)
	fmt.Fprintf(stdout, "Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	filename := outputPath(opts, time.Now())
	if err := output.Save(filename, fb); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render saved as %s\n", filename)

	if opts.compare != "" {
		reference, err := loaders.LoadImage(opts.compare)
		if err != nil {
			return err
		}
		rmse, err := loaders.FromImage(fb.ToRGBA()).RMSE(reference)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "RMSE against %s: %.6f\n", opts.compare, rmse)
	}
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) || opts.help {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
