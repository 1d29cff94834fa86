package material

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Phong is a local illumination material with ambient, diffuse and specular
// reflectances (RGB in [0,1]) and a specular exponent
type Phong struct {
	Ambient       core.Vec3 `json:"ambient"`
	Diffuse       core.Vec3 `json:"diffuse"`
	Specular      core.Vec3 `json:"specular"`
	SpecularPower float32   `json:"specularPower"`
}

// NewPhong creates a new material
func NewPhong(ambient, diffuse, specular core.Vec3, specularPower float32) Phong {
	return Phong{
		Ambient:       ambient,
		Diffuse:       diffuse,
		Specular:      specular,
		SpecularPower: specularPower,
	}
}

// Validate checks that reflectances are in [0,1] and the exponent is non-negative
func (m Phong) Validate() error {
	channels := []struct {
		name string
		v    core.Vec3
	}{
		{"ambient", m.Ambient},
		{"diffuse", m.Diffuse},
		{"specular", m.Specular},
	}
	for _, ch := range channels {
		for _, c := range ch.v {
			if !(c >= 0 && c <= 1) {
				return fmt.Errorf("%w: %s reflectance %v outside [0,1]", core.ErrInvalidMaterial, ch.name, ch.v)
			}
		}
	}
	if !(m.SpecularPower >= 0) || math32.IsInf(m.SpecularPower, 1) {
		return fmt.Errorf("%w: specular power %v", core.ErrInvalidMaterial, m.SpecularPower)
	}
	return nil
}

// Terms returns the Lambertian and mirror-lobe factors for a surface with unit
// normal n lit from direction toLight and seen from direction toViewer.
// diffuse = max(n·L, 0), specular = max(R·V, 0)^power with R = reflect(-L, n).
func (m Phong) Terms(n, toLight, toViewer core.Vec3) (diffuse, specular float32) {
	diffuse = max(n.Dot(toLight), 0)
	r := core.Reflect(toLight.Mul(-1), n)
	specular = math32.Pow(max(r.Dot(toViewer), 0), m.SpecularPower)
	return diffuse, specular
}

// Evaluate combines the terms into a color:
// ambient + diffuse*kd + specular*ks, each modulated by the light color
func (m Phong) Evaluate(lightColor core.Vec3, diffuse, specular float32) core.Vec3 {
	ambient := core.MultiplyVec(m.Ambient, lightColor)
	diff := core.MultiplyVec(m.Diffuse, lightColor).Mul(diffuse)
	spec := core.MultiplyVec(m.Specular, lightColor).Mul(specular)
	return ambient.Add(diff).Add(spec)
}
