package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

const tolerance = 1e-4

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func vec3Equal(a, b core.Vec3, tol float64) bool {
	for i := range a {
		if !almostEqual(float64(a[i]), float64(b[i]), tol) {
			return false
		}
	}
	return true
}

// createTestCamera returns the reference camera at a small resolution
func createTestCamera(t *testing.T, width, height int) *Camera {
	t.Helper()
	config := DefaultCameraConfig()
	config.Width = width
	config.Height = height
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	return camera
}

// createTestRaytracer renders the reference scene with the given sampling config
func createTestRaytracer(t *testing.T, width, height int, config SamplingConfig) *Raytracer {
	t.Helper()
	rt, err := NewRaytracer(scene.NewDefaultScene(scene.DefaultShading()), createTestCamera(t, width, height), config)
	if err != nil {
		t.Fatalf("NewRaytracer failed: %v", err)
	}
	return rt
}
