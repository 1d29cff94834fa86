package geometry

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float32
	material material.Phong
}

// NewSphere creates a new sphere. The radius must be positive and finite.
func NewSphere(center core.Vec3, radius float32, mat material.Phong) (*Sphere, error) {
	if !(radius > 0) || math32.IsInf(radius, 1) {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidRadius, radius)
	}
	if !core.IsFinite(center) {
		return nil, fmt.Errorf("sphere center %v is not finite", center)
	}
	if err := mat.Validate(); err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return &Sphere{Center: center, Radius: radius, material: mat}, nil
}

// Intersect tests if a ray intersects with the sphere.
// With p = o - c and t_m = -p·d, the roots are t_m ± sqrt(t_m² - |p|² + r²).
// The nearer root beyond core.Epsilon wins; a ray starting inside the sphere
// therefore hits the far root.
func (s *Sphere) Intersect(ray core.Ray) (Hit, bool) {
	p := ray.Origin.Sub(s.Center)
	d := ray.Direction

	tm := -p.Dot(d)
	delta2 := tm*tm - p.Dot(p) + s.Radius*s.Radius
	if delta2 < 0 {
		return Hit{}, false
	}

	delta := math32.Sqrt(delta2)
	t0 := tm - delta
	t1 := tm + delta

	var t float32
	switch {
	case t0 > core.Epsilon:
		t = t0
	case t1 > core.Epsilon:
		t = t1
	default:
		return Hit{}, false
	}

	hitPoint := ray.At(t)
	return Hit{T: t, Normal: core.Normalize(hitPoint.Sub(s.Center))}, true
}

// PointAt returns the point at parameter t along the ray
func (s *Sphere) PointAt(ray core.Ray, t float32) core.Vec3 {
	return ray.At(t)
}

// Material returns the sphere's material
func (s *Sphere) Material() material.Phong {
	return s.material
}

// Kind returns "sphere"
func (s *Sphere) Kind() string {
	return "sphere"
}
