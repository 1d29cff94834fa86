// Package output encodes finished frame buffers as image files.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// Format is an image file format
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// JPEGQuality is the quality used for JPEG output
const JPEGQuality = 95

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownFormat, path)
	}
}

// NewContext copies a frame buffer into a gg drawing context, top row first
func NewContext(fb *renderer.FrameBuffer) *gg.Context {
	img := fb.ToRGBA()
	dc := gg.NewContext(fb.Width, fb.Height)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			p := img.RGBAAt(x, y)
			dc.SetPixel(x, y, gg.RGB(channel(p.R), channel(p.G), channel(p.B)))
		}
	}
	return dc
}

// channel maps an 8-bit value to the center of its bucket so gg truncates back to v
func channel(v uint8) float64 {
	return (float64(v) + 0.5) / 255
}

// Encode writes the frame buffer to w in the given format
func Encode(w io.Writer, fb *renderer.FrameBuffer, format Format) error {
	dc := NewContext(fb)
	defer dc.Close()

	switch format {
	case FormatPNG:
		return dc.EncodePNG(w)
	case FormatJPEG:
		return dc.EncodeJPEG(w, JPEGQuality)
	case FormatBMP:
		return bmp.Encode(w, dc.Image())
	case FormatTIFF:
		return tiff.Encode(w, dc.Image(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", core.ErrUnknownFormat, format)
	}
}

// Save writes the frame buffer to path, creating parent directories.
// The format follows the file extension.
func Save(path string, fb *renderer.FrameBuffer) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Encode(f, fb, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	core.Logger().Info("image saved", "path", path, "format", format, "width", fb.Width, "height", fb.Height)
	return nil
}
