package renderer

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera: an eye point, a view frame (u, v, w) with w pointing
// opposite the view direction, image-plane bounds at Distance along -w, and a pixel resolution.
type CameraConfig struct {
	Eye      core.Vec3 `json:"eye"`
	U        core.Vec3 `json:"u"`
	V        core.Vec3 `json:"v"`
	W        core.Vec3 `json:"w"`
	Left     float32   `json:"left"`
	Right    float32   `json:"right"`
	Bottom   float32   `json:"bottom"`
	Top      float32   `json:"top"`
	Distance float32   `json:"distance"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
}

// DefaultCameraConfig returns the reference camera: eye at the origin looking down -z,
// a 0.2 x 0.2 image plane at distance 0.1 and a 512 x 512 resolution.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Eye:      core.NewVec3(0, 0, 0),
		U:        core.NewVec3(1, 0, 0),
		V:        core.NewVec3(0, 1, 0),
		W:        core.NewVec3(0, 0, 1),
		Left:     -0.1,
		Right:    0.1,
		Bottom:   -0.1,
		Top:      0.1,
		Distance: 0.1,
		Width:    512,
		Height:   512,
	}
}

// Validate reports whether the configuration describes a usable camera
func (c CameraConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", core.ErrInvalidResolution, c.Width, c.Height)
	}
	if !core.IsFinite(c.Eye) || !core.IsFinite(c.U) || !core.IsFinite(c.V) || !core.IsFinite(c.W) {
		return fmt.Errorf("%w: non-finite basis", core.ErrInvalidCamera)
	}
	if c.U.Len() == 0 || c.V.Len() == 0 || c.W.Len() == 0 {
		return fmt.Errorf("%w: zero-length basis vector", core.ErrInvalidCamera)
	}
	// W in the span of U and V would let u_s·U + v_s·V cancel d·W
	if volume := c.U.Dot(c.V.Cross(c.W)); math32.Abs(volume) < 1e-6*c.U.Len()*c.V.Len()*c.W.Len() {
		return fmt.Errorf("%w: basis vectors are coplanar", core.ErrInvalidCamera)
	}
	if !(c.Right > c.Left) || !(c.Top > c.Bottom) {
		return fmt.Errorf("%w: empty image plane [%v,%v]x[%v,%v]", core.ErrInvalidCamera, c.Left, c.Right, c.Bottom, c.Top)
	}
	if !(c.Distance > 0) || math32.IsInf(c.Distance, 0) {
		return fmt.Errorf("%w: image plane distance %v", core.ErrInvalidCamera, c.Distance)
	}
	return nil
}

// Camera maps pixel coordinates to primary rays. It is immutable and safe for concurrent use.
type Camera struct {
	config CameraConfig
}

// NewCamera validates the configuration and creates a camera
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Camera{config: config}, nil
}

// Config returns the camera configuration
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Width returns the horizontal pixel resolution
func (c *Camera) Width() int {
	return c.config.Width
}

// Height returns the vertical pixel resolution
func (c *Camera) Height() int {
	return c.config.Height
}

// RayThrough returns the ray from the eye through pixel-space coordinates (px, py).
// py grows upward: py = 0 is the bottom edge of the image plane.
func (c *Camera) RayThrough(px, py float32) core.Ray {
	cfg := &c.config
	us := cfg.Left + (cfg.Right-cfg.Left)*px/float32(cfg.Width)
	vs := cfg.Bottom + (cfg.Top-cfg.Bottom)*py/float32(cfg.Height)

	direction := cfg.U.Mul(us).Add(cfg.V.Mul(vs)).Sub(cfg.W.Mul(cfg.Distance))
	return core.NewRay(cfg.Eye, direction)
}

// Resize returns a camera with the same view and a new pixel resolution
func (c *Camera) Resize(width, height int) (*Camera, error) {
	config := c.config
	config.Width = width
	config.Height = height
	return NewCamera(config)
}

// LookAt builds an orthonormal view frame for an eye looking at target.
// w points from target back to the eye; v is the component of up orthogonal to w.
func LookAt(eye, target, up core.Vec3) (u, v, w core.Vec3, err error) {
	forward := target.Sub(eye)
	if forward.Len() == 0 {
		return u, v, w, fmt.Errorf("%w: eye and target coincide", core.ErrInvalidCamera)
	}
	w = core.Normalize(forward.Mul(-1))
	u = up.Cross(w)
	if u.Len() < core.ParallelEpsilon {
		return core.Vec3{}, core.Vec3{}, core.Vec3{}, fmt.Errorf("%w: up is parallel to the view direction", core.ErrInvalidCamera)
	}
	u = core.Normalize(u)
	v = w.Cross(u)
	return u, v, w, nil
}
