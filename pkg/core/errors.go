package core

import "errors"

var (
	// ErrInvalidResolution is returned when an image width or height is below 1.
	ErrInvalidResolution = errors.New("invalid resolution")

	// ErrInvalidRadius is returned when a sphere radius is not positive.
	ErrInvalidRadius = errors.New("sphere radius must be positive")

	// ErrDegenerateNormal is returned when a plane normal has zero length.
	ErrDegenerateNormal = errors.New("plane normal must be non-zero")

	// ErrInvalidMaterial is returned when a reflectance or exponent is out of range.
	ErrInvalidMaterial = errors.New("invalid material")

	// ErrInvalidCamera is returned for a degenerate image plane or basis.
	ErrInvalidCamera = errors.New("invalid camera")

	// ErrInvalidSampling is returned for a non-positive sample count or gamma.
	ErrInvalidSampling = errors.New("invalid sampling configuration")

	// ErrUnknownFormat is returned when an output or scene format is not recognised.
	ErrUnknownFormat = errors.New("unknown format")
)
