package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// DefaultConfig describes the reference scene: a ground plane at y = -2 and
// red, green (specular) and blue spheres at z = -7, lit by a white light at (-4, 4, -3)
func DefaultConfig() Config {
	return Config{
		Light: PointLight{
			Position: core.NewVec3(-4, 4, -3),
			Color:    core.NewVec3(1, 1, 1),
		},
		Background: core.Vec3{},
		Shading:    DefaultShading(),
		Surfaces: []SurfaceConfig{
			{
				Type:   TypePlane,
				Normal: core.NewVec3(0, 1, 0),
				Offset: 2,
				Material: material.NewPhong(
					core.NewVec3(0.2, 0.2, 0.2), core.NewVec3(1, 1, 1), core.Vec3{}, 0),
			},
			{
				Type:   TypeSphere,
				Center: core.NewVec3(-4, 0, -7),
				Radius: 1,
				Material: material.NewPhong(
					core.NewVec3(0.2, 0, 0), core.NewVec3(1, 0, 0), core.Vec3{}, 0),
			},
			{
				Type:   TypeSphere,
				Center: core.NewVec3(0, 0, -7),
				Radius: 2,
				Material: material.NewPhong(
					core.NewVec3(0, 0.2, 0), core.NewVec3(0, 0.5, 0), core.NewVec3(0.5, 0.5, 0.5), 32),
			},
			{
				Type:   TypeSphere,
				Center: core.NewVec3(4, 0, -7),
				Radius: 1,
				Material: material.NewPhong(
					core.NewVec3(0, 0, 0.2), core.NewVec3(0, 0, 1), core.Vec3{}, 0),
			},
		},
	}
}

// NewDefaultScene builds the reference scene with the given shading variant
func NewDefaultScene(shading Shading) *Scene {
	c := DefaultConfig()
	c.Shading = shading
	return c.MustBuild()
}
