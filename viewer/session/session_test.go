package session

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

func newTestSession() *Session {
	sampling := renderer.DefaultSamplingConfig()
	sampling.SamplesPerPixel = 2
	return New(scene.NewDefaultScene(scene.DefaultShading()), renderer.DefaultCameraConfig(), sampling)
}

func TestSessionResize(t *testing.T) {
	s := newTestSession()
	if w, h := s.Size(); w != 0 || h != 0 || s.Image() != nil {
		t.Fatalf("Expected no frame before the first resize")
	}

	rendered, err := s.Resize(context.Background(), 20, 10)
	if err != nil || !rendered {
		t.Fatalf("Expected a render, got %v, %v", rendered, err)
	}
	if w, h := s.Size(); w != 20 || h != 10 {
		t.Errorf("Expected 20x10, got %dx%d", w, h)
	}
	if b := s.Image().Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("Expected a 20x10 image, got %v", b)
	}
	if s.Stats().TotalPixels != 200 {
		t.Errorf("Expected 200 pixels, got %d", s.Stats().TotalPixels)
	}
	first := s.Frame()

	// Same size: nothing to do
	rendered, err = s.Resize(context.Background(), 20, 10)
	if err != nil || rendered || s.Frame() != first || s.Frames() != 1 {
		t.Errorf("Expected no render for an unchanged size")
	}

	// New size: a fresh buffer replaces the old one
	rendered, err = s.Resize(context.Background(), 12, 16)
	if err != nil || !rendered {
		t.Fatalf("Expected a render, got %v, %v", rendered, err)
	}
	if s.Frame() == first || s.Frames() != 2 {
		t.Errorf("Expected a new frame buffer")
	}
	if first.Width != 20 {
		t.Errorf("The previous frame must not be modified")
	}
}

func TestSessionResize_Invalid(t *testing.T) {
	s := newTestSession()
	if _, err := s.Resize(context.Background(), 0, 10); !errors.Is(err, core.ErrInvalidResolution) {
		t.Errorf("Expected ErrInvalidResolution, got %v", err)
	}
	if s.Frame() != nil {
		t.Error("A failed resize must not produce a frame")
	}
}
