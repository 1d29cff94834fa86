package geometry

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// Hit is a valid intersection: ray parameter T > core.Epsilon and the outward unit normal
type Hit struct {
	T      float32
	Normal core.Vec3
}

// Surface is an analytic shape that can be intersected by rays.
// Intersect is a pure query; a miss is reported as false, never as an error.
type Surface interface {
	Intersect(ray core.Ray) (Hit, bool)
	PointAt(ray core.Ray, t float32) core.Vec3
	Material() material.Phong
	Kind() string
}
