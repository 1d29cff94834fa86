package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is the vector and RGB color type used throughout the renderer
type Vec3 = mgl32.Vec3

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Normalize returns a unit vector in the same direction, or the zero vector for a zero-length input
func Normalize(v Vec3) Vec3 {
	length := v.Len()
	if length == 0 {
		return Vec3{}
	}
	return v.Mul(1 / length)
}

// Reflect mirrors the incident vector i about the normal n (n must be unit length)
func Reflect(i, n Vec3) Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

// MultiplyVec returns component-wise multiplication of two vectors
func MultiplyVec(a, b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Clamp returns a vector with components clamped to [minVal, maxVal]
func Clamp(v Vec3, minVal, maxVal float32) Vec3 {
	return Vec3{
		mgl32.Clamp(v[0], minVal, maxVal),
		mgl32.Clamp(v[1], minVal, maxVal),
		mgl32.Clamp(v[2], minVal, maxVal),
	}
}

// Pow raises each component to the given exponent. Negative components are
// clamped to zero first so the result is never NaN.
func Pow(v Vec3, exponent float32) Vec3 {
	return Vec3{
		math32.Pow(max(v[0], 0), exponent),
		math32.Pow(max(v[1], 0), exponent),
		math32.Pow(max(v[2], 0), exponent),
	}
}

// GammaCorrect applies gamma correction (v^(1/gamma)) to color values
func GammaCorrect(v Vec3, gamma float32) Vec3 {
	if gamma == 1 {
		return Vec3{max(v[0], 0), max(v[1], 0), max(v[2], 0)}
	}
	return Pow(v, 1/gamma)
}

// Luminance returns the perceptual luminance of an RGB color
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func Luminance(v Vec3) float32 {
	return 0.299*v[0] + 0.587*v[1] + 0.114*v[2]
}

// IsFinite reports whether every component is a finite number
func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
