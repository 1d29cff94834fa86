//go:build !cgo

package main

import (
	"errors"

	"github.com/df07/go-phong-raytracer/viewer/session"
)

func runWindow(_ *session.Session, _, _ int) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
