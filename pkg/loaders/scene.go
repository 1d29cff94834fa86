package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// LoadScene reads a JSON scene description file
func LoadScene(filename string) (scene.Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return scene.Config{}, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	cfg, err := ReadScene(file)
	if err != nil {
		return scene.Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// ReadScene decodes a JSON scene description. Fields missing from the
// document keep the defaults: white light, black background, shadows with gamma 2.2.
func ReadScene(r io.Reader) (scene.Config, error) {
	cfg := scene.Config{
		Light:   scene.PointLight{Color: core.NewVec3(1, 1, 1)},
		Shading: scene.DefaultShading(),
	}

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return scene.Config{}, fmt.Errorf("failed to parse scene: %w", err)
	}
	return cfg, nil
}

// WriteScene encodes a scene description as indented JSON
func WriteScene(w io.Writer, cfg scene.Config) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
