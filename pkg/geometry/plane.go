package geometry

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// Plane represents an infinite plane dot(n, p) + offset = 0
type Plane struct {
	Normal   core.Vec3 // Unit normal
	Offset   float32   // Signed distance term of the plane equation
	material material.Phong
}

// NewPlane creates a new plane. The normal is normalized and must be non-zero.
// The offset is kept as given, so it is the distance from the origin only for
// a unit-length input normal: normal (0,2,0) with offset 4 is the plane y = -4.
func NewPlane(normal core.Vec3, offset float32, mat material.Phong) (*Plane, error) {
	if normal.Len() == 0 || !core.IsFinite(normal) {
		return nil, fmt.Errorf("%w: %v", core.ErrDegenerateNormal, normal)
	}
	if math32.IsNaN(offset) || math32.IsInf(offset, 0) {
		return nil, fmt.Errorf("plane offset %v is not finite", offset)
	}
	if err := mat.Validate(); err != nil {
		return nil, fmt.Errorf("plane: %w", err)
	}
	return &Plane{Normal: core.Normalize(normal), Offset: offset, material: mat}, nil
}

// Intersect tests if a ray intersects with the plane.
// The returned normal is always the plane normal; it is not flipped toward the viewer.
func (p *Plane) Intersect(ray core.Ray) (Hit, bool) {
	denominator := p.Normal.Dot(ray.Direction)

	// Ray parallel to the plane
	if math32.Abs(denominator) < core.ParallelEpsilon {
		return Hit{}, false
	}

	t := -(p.Normal.Dot(ray.Origin) + p.Offset) / denominator
	if t <= core.Epsilon {
		return Hit{}, false
	}

	return Hit{T: t, Normal: p.Normal}, true
}

// PointAt returns the point at parameter t along the ray
func (p *Plane) PointAt(ray core.Ray, t float32) core.Vec3 {
	return ray.At(t)
}

// Material returns the plane's material
func (p *Plane) Material() material.Phong {
	return p.material
}

// Kind returns "plane"
func (p *Plane) Kind() string {
	return "plane"
}
