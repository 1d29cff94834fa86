package scene

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
)

// PointLight is a single point light source
type PointLight struct {
	Position core.Vec3 `json:"position"`
	Color    core.Vec3 `json:"color"`
}

// Shading selects the shading variant
type Shading struct {
	// Shadows enables the shadow query. Occluders anywhere along the shadow
	// ray count, including those beyond the light, unless ShadowsToLightOnly is set.
	Shadows            bool `json:"shadows"`
	ShadowsToLightOnly bool `json:"shadowsToLightOnly,omitempty"`
	// ModulateLight scales the ambient, diffuse and specular terms by the
	// light color. Without it the light only contributes its position.
	ModulateLight bool    `json:"modulateLight,omitempty"`
	Gamma         float32 `json:"gamma"` // 1 disables gamma correction
}

// BasicShading returns the unshadowed, linear shading variant tinted by the light color
func BasicShading() Shading {
	return Shading{Shadows: false, ModulateLight: true, Gamma: 1}
}

// DefaultShading returns hard shadows with gamma 2.2 and an untinted light
func DefaultShading() Shading {
	return Shading{Shadows: true, Gamma: 2.2}
}

// Validate checks the gamma exponent
func (s Shading) Validate() error {
	if !(s.Gamma > 0) || math32.IsInf(s.Gamma, 1) {
		return fmt.Errorf("%w: gamma %v must be positive", core.ErrInvalidSampling, s.Gamma)
	}
	return nil
}

// Scene owns an ordered list of surfaces and a single point light.
// It is read-only while rendering; rebuild it between frames.
type Scene struct {
	surfaces   []geometry.Surface
	Light      PointLight
	Background core.Vec3
	Shading    Shading
}

// New creates an empty scene with a black background
func New(light PointLight, shading Shading) *Scene {
	return &Scene{
		surfaces: make([]geometry.Surface, 0, 4),
		Light:    light,
		Shading:  shading,
	}
}

// Add appends surfaces. Insertion order breaks ties in TraceNearest.
func (s *Scene) Add(surfaces ...geometry.Surface) {
	s.surfaces = append(s.surfaces, surfaces...)
}

// Surfaces returns the scene's surfaces in insertion order
func (s *Scene) Surfaces() []geometry.Surface {
	return s.surfaces
}

// Intersection is the nearest hit of a ray against the scene
type Intersection struct {
	Surface geometry.Surface
	Index   int // Position of Surface in the scene
	T       float32
	Normal  core.Vec3
	Point   core.Vec3
}

// TraceNearest scans every surface and keeps the smallest t.
// Equal t values keep the earlier surface.
func (s *Scene) TraceNearest(ray core.Ray) (Intersection, bool) {
	closest := Intersection{Index: -1, T: math32.MaxFloat32}

	for i, surface := range s.surfaces {
		if hit, ok := surface.Intersect(ray); ok && hit.T < closest.T {
			closest.Surface = surface
			closest.Index = i
			closest.T = hit.T
			closest.Normal = hit.Normal
		}
	}

	if closest.Surface == nil {
		return Intersection{Index: -1}, false
	}
	closest.Point = closest.Surface.PointAt(ray, closest.T)
	return closest, true
}

// InShadow casts a ray from point+ε·lightDir along lightDir and reports
// whether anything is hit. The distance to the light is not considered.
func (s *Scene) InShadow(point, lightDir core.Vec3) bool {
	return s.occluded(point, lightDir, math32.MaxFloat32)
}

// InShadowWithin is InShadow restricted to occluders closer than maxDistance
func (s *Scene) InShadowWithin(point, lightDir core.Vec3, maxDistance float32) bool {
	return s.occluded(point, lightDir, maxDistance)
}

func (s *Scene) occluded(point, lightDir core.Vec3, maxDistance float32) bool {
	shadowRay := core.NewRay(point.Add(lightDir.Mul(core.Epsilon)), lightDir)
	for _, surface := range s.surfaces {
		if hit, ok := surface.Intersect(shadowRay); ok && hit.T < maxDistance {
			return true
		}
	}
	return false
}
