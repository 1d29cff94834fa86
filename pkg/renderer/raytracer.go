package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"runtime"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Mode selects how many primary rays each pixel receives
type Mode int

const (
	ModeBasic   Mode = iota // One ray through the pixel center
	ModeSampled             // SamplesPerPixel jittered rays, averaged
)

func (m Mode) String() string {
	switch m {
	case ModeBasic:
		return "basic"
	case ModeSampled:
		return "sampled"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts "basic" or "sampled" to a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "basic":
		return ModeBasic, nil
	case "sampled":
		return ModeSampled, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", core.ErrInvalidSampling, s)
	}
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Mode            Mode  // Basic or sampled
	SamplesPerPixel int   // Rays per pixel in sampled mode
	Seed            int64 // Base seed; tile n uses Seed+n
	TileSize        int   // Edge length of a render tile in pixels
	NumWorkers      int   // Parallel tile workers (0 = use CPU count)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Mode:            ModeSampled,
		SamplesPerPixel: 64,
		Seed:            42,
		TileSize:        64,
		NumWorkers:      0,
	}
}

// Validate reports whether the configuration can be rendered
func (c SamplingConfig) Validate() error {
	if c.Mode != ModeBasic && c.Mode != ModeSampled {
		return fmt.Errorf("%w: %v", core.ErrInvalidSampling, c.Mode)
	}
	if c.Mode == ModeSampled && c.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: %d samples per pixel", core.ErrInvalidSampling, c.SamplesPerPixel)
	}
	if c.TileSize < 1 {
		return fmt.Errorf("%w: tile size %d", core.ErrInvalidSampling, c.TileSize)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: %d workers", core.ErrInvalidSampling, c.NumWorkers)
	}
	return nil
}

// samples returns the number of primary rays per pixel
func (c SamplingConfig) samples() int {
	if c.Mode == ModeBasic {
		return 1
	}
	return c.SamplesPerPixel
}

// workers returns the effective worker count
func (c SamplingConfig) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

// Raytracer renders a scene through a camera. The scene and camera are only read,
// so one Raytracer may serve many goroutines.
type Raytracer struct {
	scene  *scene.Scene
	camera *Camera
	config SamplingConfig
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene, camera *Camera, config SamplingConfig) (*Raytracer, error) {
	if s == nil || camera == nil {
		return nil, fmt.Errorf("raytracer needs a scene and a camera")
	}
	if err := s.Shading.Validate(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Raytracer{scene: s, camera: camera, config: config}, nil
}

// Scene returns the scene being rendered
func (rt *Raytracer) Scene() *scene.Scene { return rt.scene }

// Camera returns the camera used for primary rays
func (rt *Raytracer) Camera() *Camera { return rt.camera }

// Config returns the sampling configuration
func (rt *Raytracer) Config() SamplingConfig { return rt.config }

// samplePixelInto adds n samples of pixel (i, j) to ps. In basic mode every sample
// goes through the pixel center and random is not used.
func (rt *Raytracer) samplePixelInto(ps *PixelStats, i, j, n int, random *rand.Rand) {
	fi, fj := float32(i), float32(j)
	for s := 0; s < n; s++ {
		var ray core.Ray
		if rt.config.Mode == ModeBasic {
			ray = rt.camera.RayThrough(fi+0.5, fj+0.5)
		} else {
			dx := random.Float32()
			dy := random.Float32()
			ray = rt.camera.RayThrough(fi+dx, fj+dy)
		}
		ps.AddSample(rt.scene.Color(ray))
	}
}

// SamplePixel returns the color of pixel (i, j): the center ray in basic mode, or the
// average of SamplesPerPixel jittered rays drawn from random in sampled mode.
func (rt *Raytracer) SamplePixel(i, j int, random *rand.Rand) core.Vec3 {
	var ps PixelStats
	rt.samplePixelInto(&ps, i, j, rt.config.samples(), random)
	return ps.Color()
}

// RenderBounds renders the pixels inside bounds into fb, bottom row first and
// left to right within a row
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, fb *FrameBuffer, random *rand.Rand) RenderStats {
	var stats RenderStats
	n := rt.config.samples()

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			var ps PixelStats
			rt.samplePixelInto(&ps, i, j, n, random)
			fb.Set(i, j, ps.Color())
			stats.addPixel(ps.SampleCount)
		}
	}

	stats.finalize()
	return stats
}

// Render renders a complete frame into a new frame buffer. Tiles are rendered in
// parallel; each tile draws from its own generator, so the result does not depend
// on the number of workers.
func (rt *Raytracer) Render(ctx context.Context) (*FrameBuffer, RenderStats, error) {
	start := time.Now()
	width, height := rt.camera.Width(), rt.camera.Height()

	fb, err := NewFrameBuffer(width, height)
	if err != nil {
		return nil, RenderStats{}, err
	}

	tiles := NewTileGrid(width, height, rt.config.TileSize, rt.config.Seed)
	pool := NewWorkerPool(rt.config.workers())

	core.Logger().DebugContext(ctx, "render started",
		"width", width, "height", height, "mode", rt.config.Mode,
		"samples", rt.config.samples(), "tiles", len(tiles), "workers", pool.NumWorkers())

	// Tiles cover disjoint pixels, so workers write to fb without locking
	results, err := pool.Run(ctx, tiles, func(_ context.Context, tile *Tile) (RenderStats, error) {
		return rt.RenderBounds(tile.Bounds, fb, tile.Random), nil
	})
	if err != nil {
		return nil, RenderStats{}, err
	}

	var stats RenderStats
	for _, r := range results {
		stats.merge(r.Stats)
	}
	stats.finalize()
	stats.Duration = time.Since(start)

	core.Logger().InfoContext(ctx, "render finished",
		"width", width, "height", height, "samples", rt.config.samples(), "duration", stats.Duration)

	return fb, stats, nil
}
