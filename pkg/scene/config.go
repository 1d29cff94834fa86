package scene

import (
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// Surface types understood by SurfaceConfig
const (
	TypeSphere = "sphere"
	TypePlane  = "plane"
)

// Config is a declarative scene description
type Config struct {
	Light      PointLight      `json:"light"`
	Background core.Vec3       `json:"background"`
	Shading    Shading         `json:"shading"`
	Surfaces   []SurfaceConfig `json:"surfaces"`
}

// SurfaceConfig describes one sphere (Center, Radius) or plane (Normal, Offset)
type SurfaceConfig struct {
	Type     string         `json:"type"`
	Center   core.Vec3      `json:"center"`
	Radius   float32        `json:"radius,omitempty"`
	Normal   core.Vec3      `json:"normal"`
	Offset   float32        `json:"offset,omitempty"` // Not rescaled when Normal is normalized
	Material material.Phong `json:"material"`
}

// Build validates the description and constructs the scene
func (c Config) Build() (*Scene, error) {
	if err := c.Shading.Validate(); err != nil {
		return nil, err
	}
	if !core.IsFinite(c.Light.Position) || !core.IsFinite(c.Light.Color) {
		return nil, fmt.Errorf("light %+v is not finite", c.Light)
	}

	s := New(c.Light, c.Shading)
	s.Background = c.Background
	for i, sc := range c.Surfaces {
		surface, err := sc.Build()
		if err != nil {
			return nil, fmt.Errorf("surface %d: %w", i, err)
		}
		s.Add(surface)
	}
	return s, nil
}

// MustBuild is like Build but panics on error. Use it only for static descriptions.
func (c Config) MustBuild() *Scene {
	s, err := c.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Build constructs the described surface
func (sc SurfaceConfig) Build() (geometry.Surface, error) {
	switch sc.Type {
	case TypeSphere:
		return geometry.NewSphere(sc.Center, sc.Radius, sc.Material)
	case TypePlane:
		return geometry.NewPlane(sc.Normal, sc.Offset, sc.Material)
	default:
		return nil, fmt.Errorf("%w: surface type %q", core.ErrUnknownFormat, sc.Type)
	}
}

// Describe converts a surface back into its description
func Describe(surface geometry.Surface) (SurfaceConfig, bool) {
	switch s := surface.(type) {
	case *geometry.Sphere:
		return SurfaceConfig{Type: TypeSphere, Center: s.Center, Radius: s.Radius, Material: s.Material()}, true
	case *geometry.Plane:
		return SurfaceConfig{Type: TypePlane, Normal: s.Normal, Offset: s.Offset, Material: s.Material()}, true
	default:
		return SurfaceConfig{}, false
	}
}

// Config returns a description of the scene
func (s *Scene) Config() Config {
	c := Config{
		Light:      s.Light,
		Background: s.Background,
		Shading:    s.Shading,
		Surfaces:   make([]SurfaceConfig, 0, len(s.surfaces)),
	}
	for _, surface := range s.surfaces {
		if sc, ok := Describe(surface); ok {
			c.Surfaces = append(c.Surfaces, sc)
		}
	}
	return c
}
