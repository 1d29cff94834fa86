package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int // Size of each tile (64x64 recommended)
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel
	MaxPasses          int // Maximum number of passes
	NumWorkers         int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 64, // Same budget as a single sampled render
		MaxPasses:          7,
		NumWorkers:         0, // Auto-detect CPU count
	}
}

// Validate reports whether the configuration can be rendered
func (c ProgressiveConfig) Validate() error {
	switch {
	case c.TileSize < 1:
		return fmt.Errorf("%w: tile size %d", core.ErrInvalidSampling, c.TileSize)
	case c.MaxPasses < 1:
		return fmt.Errorf("%w: %d passes", core.ErrInvalidSampling, c.MaxPasses)
	case c.InitialSamples < 1 || c.InitialSamples > c.MaxSamplesPerPixel:
		return fmt.Errorf("%w: initial samples %d with maximum %d", core.ErrInvalidSampling, c.InitialSamples, c.MaxSamplesPerPixel)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: %d workers", core.ErrInvalidSampling, c.NumWorkers)
	}
	return nil
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	raytracer     *Raytracer
	tileRenderer  *TileRenderer
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (frame buffer coordinates)
	workerPool    *WorkerPool
}

// NewProgressiveRaytracer creates a progressive renderer on top of rt. A basic-mode
// raytracer has nothing to refine, so it is rendered in a single one-sample pass.
func NewProgressiveRaytracer(rt *Raytracer, config ProgressiveConfig) (*ProgressiveRaytracer, error) {
	if rt.config.Mode == ModeBasic {
		config.InitialSamples = 1
		config.MaxSamplesPerPixel = 1
		config.MaxPasses = 1
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	width, height := rt.camera.Width(), rt.camera.Height()

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	return &ProgressiveRaytracer{
		raytracer:    rt,
		tileRenderer: NewTileRenderer(rt),
		width:        width,
		height:       height,
		config:       config,
		tiles:        NewTileGrid(width, height, config.TileSize, rt.config.Seed),
		pixelStats:   pixelStats,
		workerPool:   NewWorkerPool(config.NumWorkers),
	}, nil
}

// Config returns the progressive configuration in effect
func (pr *ProgressiveRaytracer) Config() ProgressiveConfig {
	return pr.config
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber >= pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *FrameBuffer
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX       int             // Tile column, counted from the left
	TileY       int             // Tile row, counted from the top
	ImageBounds image.Rectangle // Tile bounds in top-down image coordinates
	TileImage   *image.RGBA     // Image data for just this tile, top row first
	PassNumber  int             // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Completion order of this tile in the pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderPass renders a single progressive pass using parallel processing.
// tileCallback, when non-nil, is called once per finished tile, never concurrently.
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*FrameBuffer, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	core.Logger().DebugContext(ctx, "progressive pass started",
		"pass", passNumber, "targetSamples", targetSamples, "workers", pr.workerPool.NumWorkers())

	var mu sync.Mutex
	completed := 0

	_, err := pr.workerPool.Run(ctx, pr.tiles, func(_ context.Context, tile *Tile) (RenderStats, error) {
		stats := pr.tileRenderer.RenderTileBounds(tile.Bounds, pr.pixelStats, tile.Random, targetSamples)
		tile.PassesCompleted++

		if tileCallback != nil {
			tileImage := pr.extractTileImage(tile)
			mu.Lock()
			completed++
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       pr.tileRowFromTop(tile),
				ImageBounds: pr.imageBounds(tile.Bounds),
				TileImage:   tileImage,
				PassNumber:  passNumber,
				TileNumber:  completed,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
			mu.Unlock()
		}
		return stats, nil
	})
	if err != nil {
		return nil, RenderStats{}, err
	}

	fb, stats := pr.assembleCurrentFrame()
	return fb, stats, nil
}

// imageBounds converts frame buffer bounds to top-down image bounds
func (pr *ProgressiveRaytracer) imageBounds(b image.Rectangle) image.Rectangle {
	return image.Rect(b.Min.X, pr.height-b.Max.Y, b.Max.X, pr.height-b.Min.Y)
}

func (pr *ProgressiveRaytracer) tileRowFromTop(tile *Tile) int {
	rows := (pr.height + pr.config.TileSize - 1) / pr.config.TileSize
	return rows - 1 - tile.Bounds.Min.Y/pr.config.TileSize
}

// extractTileImage extracts a tile image from the shared pixel stats array
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		y := bounds.Max.Y - 1 - j
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			c := core.Clamp(pr.pixelStats[j][i].Color(), 0, 1)
			tileImage.SetRGBA(i-bounds.Min.X, y, color.RGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: 255})
		}
	}

	return tileImage
}

// assembleCurrentFrame creates a frame buffer from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentFrame() (*FrameBuffer, RenderStats) {
	fb := &FrameBuffer{Width: pr.width, Height: pr.height, Pix: make([]float32, pr.width*pr.height*3)}

	var stats RenderStats
	for j := 0; j < pr.height; j++ {
		for i := 0; i < pr.width; i++ {
			pixel := &pr.pixelStats[j][i]
			fb.Set(i, j, pixel.Color())
			stats.addPixel(pixel.SampleCount)
		}
	}
	stats.finalize()

	return fb, stats
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders all passes on a background goroutine and reports them over channels.
// If options.TileUpdates is false, the tile channel is closed immediately.
// The error channel receives at most one error: the render failure or ctx.Err().
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		logger := core.Logger()
		logger.InfoContext(ctx, "progressive render started", "passes", pr.config.MaxPasses, "maxSamples", pr.config.MaxSamplesPerPixel)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			if err := ctx.Err(); err != nil {
				logger.InfoContext(ctx, "progressive render cancelled", "pass", pass)
				errChan <- err
				return
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Tile events are best effort; the pass result carries the full frame
					}
				}
			}

			fb, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}
			stats.Duration = time.Since(startTime)

			logger.InfoContext(ctx, "progressive pass finished",
				"pass", pass, "duration", stats.Duration, "samples", stats.MinSamples)

			isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Frame: fb, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}
