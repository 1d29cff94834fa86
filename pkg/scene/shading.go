package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Color traces a ray and returns the shaded color of the nearest hit, or the
// background when nothing is hit
func (s *Scene) Color(ray core.Ray) core.Vec3 {
	isect, ok := s.TraceNearest(ray)
	if !ok {
		return s.Background
	}
	return s.Shade(ray, isect)
}

// Shade evaluates the Phong model at an intersection:
// L = normalize(light - p), V = -d, R = reflect(-L, n).
// A shadowed point keeps only its ambient term. The terms are scaled by the
// light color only with Shading.ModulateLight. The result is clamped to
// [0,1] and then gamma corrected when Shading.Gamma != 1.
func (s *Scene) Shade(ray core.Ray, isect Intersection) core.Vec3 {
	mat := isect.Surface.Material()

	toLight := s.Light.Position.Sub(isect.Point)
	lightDir := core.Normalize(toLight)
	viewDir := core.Normalize(ray.Direction.Mul(-1))

	var diffuse, specular float32
	if !s.shadowed(isect.Point, lightDir, toLight.Len()) {
		diffuse, specular = mat.Terms(isect.Normal, lightDir, viewDir)
	}

	lightColor := core.NewVec3(1, 1, 1)
	if s.Shading.ModulateLight {
		lightColor = s.Light.Color
	}

	color := core.Clamp(mat.Evaluate(lightColor, diffuse, specular), 0, 1)
	if s.Shading.Gamma != 1 {
		color = core.GammaCorrect(color, s.Shading.Gamma)
	}
	return color
}

func (s *Scene) shadowed(point, lightDir core.Vec3, lightDistance float32) bool {
	switch {
	case !s.Shading.Shadows:
		return false
	case s.Shading.ShadowsToLightOnly:
		return s.InShadowWithin(point, lightDir, lightDistance)
	default:
		return s.InShadow(point, lightDir)
	}
}

// Shadowed reports whether the light is blocked at point under the scene's
// shading variant
func (s *Scene) Shadowed(point core.Vec3) bool {
	toLight := s.Light.Position.Sub(point)
	return s.shadowed(point, core.Normalize(toLight), toLight.Len())
}
