package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/output"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Request limits
const (
	DefaultTileSize = 32
	MinDimension    = 1
	MaxDimension    = 2000
	MaxSamples      = 10000
	MaxPasses       = 100
)

// Server handles web requests for the raytracer
type Server struct {
	port    int
	base    scene.Config
	console *ConsoleHandler
	mux     *http.ServeMux
}

// NewServer creates a web server rendering the given scene description.
// console may be nil, in which case renders stream no console events.
func NewServer(port int, base scene.Config, console *ConsoleHandler) *Server {
	s := &Server{port: port, base: base, console: console, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/render", s.handleRender)
	s.mux.HandleFunc("GET /api/frame", s.handleFrame)
	s.mux.HandleFunc("GET /api/inspect", s.handleInspect)
	s.mux.HandleFunc("GET /api/scene-config", s.handleSceneConfig)
	return s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	core.Logger().Info("starting web server", "addr", "http://localhost"+addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// RenderRequest represents the scene and sampling parameters of a request
type RenderRequest struct {
	Width      int     `json:"width"`      // Image width
	Height     int     `json:"height"`     // Image height
	Mode       string  `json:"mode"`       // "basic" or "sampled"
	Samples    int     `json:"samples"`    // Samples per pixel for single frames
	MaxSamples int     `json:"maxSamples"` // Maximum samples per pixel for progressive renders
	MaxPasses  int     `json:"maxPasses"`  // Maximum number of passes
	Seed       int64   `json:"seed"`       // Base jitter seed
	Gamma      float64 `json:"gamma"`      // Gamma exponent
	Shadows    bool    `json:"shadows"`    // Hard shadows on or off
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	DurationMs     int64   `json:"durationMs"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples,
		MinSamples:     stats.MinSamples,
		MaxSamplesUsed: stats.MaxSamplesUsed,
		DurationMs:     stats.Duration.Milliseconds(),
	}
}

// parseCommonSceneParams parses the parameters shared by render, frame and inspect requests.
// Without explicit gamma/shadows the mode picks the shading preset of the base scene.
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()
	camera := renderer.DefaultCameraConfig()
	sampling := renderer.DefaultSamplingConfig()

	var err error
	if req.Width, err = parseIntParam(query, "width", camera.Width, MinDimension, MaxDimension); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", camera.Height, MinDimension, MaxDimension); err != nil {
		return err
	}

	req.Mode = sampling.Mode.String()
	if mode := query.Get("mode"); mode != "" {
		if _, err := renderer.ParseMode(mode); err != nil {
			return err
		}
		req.Mode = mode
	}

	shading := s.base.Shading
	if req.Mode == renderer.ModeBasic.String() {
		shading = scene.BasicShading()
	}
	if req.Gamma, err = parseFloatParam(query, "gamma", float64(shading.Gamma), 0.1, 10); err != nil {
		return err
	}
	if req.Shadows, err = parseBoolParam(query, "shadows", shading.Shadows); err != nil {
		return err
	}
	seed, err := parseIntParam(query, "seed", int(sampling.Seed), 0, 1<<31-1)
	if err != nil {
		return err
	}
	req.Seed = int64(seed)
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createRaytracer builds the scene, camera and raytracer for a request
func (s *Server) createRaytracer(req *RenderRequest) (*renderer.Raytracer, error) {
	cfg := s.base
	if req.Mode == renderer.ModeBasic.String() {
		cfg.Shading = scene.BasicShading()
	}
	cfg.Shading.Gamma = float32(req.Gamma)
	cfg.Shading.Shadows = req.Shadows

	sceneObj, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Width = req.Width
	cameraConfig.Height = req.Height
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, err
	}

	mode, err := renderer.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	sampling := renderer.DefaultSamplingConfig()
	sampling.Mode = mode
	sampling.Seed = req.Seed
	sampling.TileSize = DefaultTileSize
	if req.Samples > 0 {
		sampling.SamplesPerPixel = req.Samples
	}

	return renderer.NewRaytracer(sceneObj, camera, sampling)
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		core.Logger().Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFrame renders one complete frame and returns it as an image
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	var err error
	if req.Samples, err = parseIntParam(r.URL.Query(), "samples", renderer.DefaultSamplingConfig().SamplesPerPixel, 1, MaxSamples); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := output.FormatPNG
	if f := r.URL.Query().Get("format"); f != "" {
		if format, err = output.FormatFromPath("frame." + f); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rt, err := s.createRaytracer(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fb, stats, err := rt.Render(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Render error: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/"+string(format))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	if err := output.Encode(w, fb, format); err != nil {
		core.Logger().Warn("failed to encode frame", "error", err)
	}
}

// handleSceneConfig returns the scene description with request defaults and limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	camera := renderer.DefaultCameraConfig()
	sampling := renderer.DefaultSamplingConfig()
	progressive := renderer.DefaultProgressiveConfig()

	response := map[string]any{
		"scene":  s.base,
		"camera": camera,
		"defaults": map[string]any{
			"width":      camera.Width,
			"height":     camera.Height,
			"mode":       sampling.Mode.String(),
			"samples":    sampling.SamplesPerPixel,
			"maxSamples": progressive.MaxSamplesPerPixel,
			"maxPasses":  progressive.MaxPasses,
			"seed":       sampling.Seed,
			"gamma":      s.base.Shading.Gamma,
			"shadows":    s.base.Shading.Shadows,
		},
		"limits": map[string]any{
			"width":      map[string]int{"min": MinDimension, "max": MaxDimension},
			"height":     map[string]int{"min": MinDimension, "max": MaxDimension},
			"samples":    map[string]int{"min": 1, "max": MaxSamples},
			"maxSamples": map[string]int{"min": 1, "max": MaxSamples},
			"maxPasses":  map[string]int{"min": 1, "max": MaxPasses},
			"gamma":      map[string]float64{"min": 0.1, "max": 10},
		},
	}

	writeJSON(w, http.StatusOK, response)
}
