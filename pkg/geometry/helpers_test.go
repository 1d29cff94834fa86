package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

const tolerance = 1e-4

func almostEqual(a, b float32) bool {
	return math32.Abs(a-b) < tolerance
}

func vec3Equal(a, b core.Vec3) bool {
	return almostEqual(a[0], b[0]) && almostEqual(a[1], b[1]) && almostEqual(a[2], b[2])
}

func grey() material.Phong {
	return material.NewPhong(core.NewVec3(0.2, 0.2, 0.2), core.NewVec3(1, 1, 1), core.Vec3{}, 0)
}
