package geometry

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

func mustSphere(t *testing.T, center core.Vec3, radius float32) *Sphere {
	t.Helper()
	s, err := NewSphere(center, radius, grey())
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	return s
}

func TestNewSphere_RejectsDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		radius float32
		want   error
	}{
		{"zero radius", 0, core.ErrInvalidRadius},
		{"negative radius", -1, core.ErrInvalidRadius},
		{"NaN radius", math32.NaN(), core.ErrInvalidRadius},
		{"infinite radius", math32.Inf(1), core.ErrInvalidRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSphere(core.Vec3{}, tt.radius, grey())
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	bad := material.NewPhong(core.NewVec3(2, 0, 0), core.Vec3{}, core.Vec3{}, 0)
	if _, err := NewSphere(core.Vec3{}, 1, bad); !errors.Is(err, core.ErrInvalidMaterial) {
		t.Errorf("Expected ErrInvalidMaterial, got %v", err)
	}
}

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := mustSphere(t, core.NewVec3(0, 0, 0), 1)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	if hit, ok := sphere.Intersect(ray); ok {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Intersect_TowardCenter(t *testing.T) {
	tests := []struct {
		name   string
		origin core.Vec3
		center core.Vec3
		radius float32
	}{
		{"reference red sphere", core.NewVec3(0, 0, 0), core.NewVec3(-4, 0, -7), 1},
		{"reference green sphere", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -7), 2},
		{"off-axis origin", core.NewVec3(3, -2, 5), core.NewVec3(-1, 1, -2), 0.5},
		{"large sphere", core.NewVec3(0, 10, 0), core.NewVec3(0, -100, 0), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := mustSphere(t, tt.center, tt.radius)
			ray := core.NewRay(tt.origin, tt.center.Sub(tt.origin))

			hit, ok := sphere.Intersect(ray)
			if !ok {
				t.Fatal("Expected hit, but got miss")
			}

			expectedT := tt.center.Sub(tt.origin).Len() - tt.radius
			if math32.Abs(hit.T-expectedT) > tolerance*expectedT {
				t.Errorf("Expected t=%f, got t=%f", expectedT, hit.T)
			}
			if !vec3Equal(hit.Normal, ray.Direction.Mul(-1)) {
				t.Errorf("Expected normal anti-parallel to ray %v, got %v", ray.Direction.Mul(-1), hit.Normal)
			}
		})
	}
}

func TestSphere_Intersect_FromInside(t *testing.T) {
	sphere := mustSphere(t, core.NewVec3(0, 0, 0), 2)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		expectedT float32
	}{
		{"from center", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 2},
		{"off center toward far side", core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), 1},
		{"off center toward near side", core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, tt.direction)
			hit, ok := sphere.Intersect(ray)
			if !ok {
				t.Fatal("Expected hit on the far root, but got miss")
			}
			if !almostEqual(hit.T, tt.expectedT) {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			// Outward normal points along the ray when leaving the sphere
			if !vec3Equal(hit.Normal, ray.Direction) {
				t.Errorf("Expected outward normal %v, got %v", ray.Direction, hit.Normal)
			}
		})
	}
}

func TestSphere_Intersect_BehindOrigin(t *testing.T) {
	sphere := mustSphere(t, core.NewVec3(0, 0, 5), 1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if hit, ok := sphere.Intersect(ray); ok {
		t.Errorf("Expected miss for sphere behind the ray, got hit at t=%f", hit.T)
	}
}

func TestSphere_Intersect_OnSurfaceIgnoresSelf(t *testing.T) {
	sphere := mustSphere(t, core.NewVec3(0, 0, 0), 1)
	// Leaving the surface outward: the t0 ≈ 0 root is rejected by the epsilon guard
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))

	if hit, ok := sphere.Intersect(ray); ok {
		t.Errorf("Expected no self-intersection, got hit at t=%f", hit.T)
	}
}

func TestSphere_Intersect_GlancingHit(t *testing.T) {
	sphere := mustSphere(t, core.NewVec3(0, 0, 0), 1)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, ok := sphere.Intersect(ray)
	if !ok {
		t.Fatal("Expected glancing hit, but got miss")
	}
	point := sphere.PointAt(ray, hit.T)
	if !vec3Equal(point, core.NewVec3(1, 0, 0)) {
		t.Errorf("Expected hit point (1,0,0), got %v", point)
	}
}
