package core

// Epsilon is the minimum ray parameter accepted as a hit. It also offsets
// shadow ray origins off the surface to avoid self-intersection.
const Epsilon float32 = 0.001

// ParallelEpsilon bounds |dot(n, d)| below which a ray is treated as parallel to a plane
const ParallelEpsilon float32 = 1e-5

// Ray represents a ray with an origin and a unit-length direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray, normalizing the direction. A zero direction yields
// the zero vector; callers reject such input at construction time
// (CameraConfig.Validate excludes bases that could produce one).
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: Normalize(direction)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
