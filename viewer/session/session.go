// Package session keeps the frame shown by the viewer in step with the window size.
package session

import (
	"context"
	"fmt"
	"image"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Session renders the scene at the current window resolution. Every resize
// triggers a full synchronous render into a fresh frame buffer.
type Session struct {
	scene    *scene.Scene
	camera   renderer.CameraConfig
	sampling renderer.SamplingConfig

	frame  *renderer.FrameBuffer
	image  *image.RGBA
	stats  renderer.RenderStats
	frames int
}

// New creates a session. Nothing is rendered until the first Resize.
func New(s *scene.Scene, camera renderer.CameraConfig, sampling renderer.SamplingConfig) *Session {
	return &Session{scene: s, camera: camera, sampling: sampling}
}

// Size returns the resolution of the current frame, or 0, 0 before the first render
func (s *Session) Size() (int, int) {
	if s.frame == nil {
		return 0, 0
	}
	return s.frame.Width, s.frame.Height
}

// Resize renders a new frame when the resolution differs from the current one.
// It reports whether a render happened.
func (s *Session) Resize(ctx context.Context, width, height int) (bool, error) {
	if w, h := s.Size(); w == width && h == height {
		return false, nil
	}

	cameraConfig := s.camera
	cameraConfig.Width = width
	cameraConfig.Height = height
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return false, err
	}

	rt, err := renderer.NewRaytracer(s.scene, camera, s.sampling)
	if err != nil {
		return false, err
	}

	fb, stats, err := rt.Render(ctx)
	if err != nil {
		return false, fmt.Errorf("render %dx%d: %w", width, height, err)
	}

	s.frame = fb
	s.image = fb.ToRGBA()
	s.stats = stats
	s.frames++

	core.Logger().Info("frame ready", "width", width, "height", height, "frame", s.frames, "duration", stats.Duration)
	return true, nil
}

// Frame returns the current frame buffer
func (s *Session) Frame() *renderer.FrameBuffer { return s.frame }

// Image returns the current frame as a top-down RGBA image
func (s *Session) Image() *image.RGBA { return s.image }

// Stats returns the statistics of the last render
func (s *Session) Stats() renderer.RenderStats { return s.stats }

// Frames returns how many frames have been rendered
func (s *Session) Frames() int { return s.frames }
