package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// FrameBuffer is a flat RGB float image. Pix holds Width*Height*3 channel values, row-major,
// with row 0 at the bottom of the image.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []float32
}

// NewFrameBuffer allocates a black frame buffer
func NewFrameBuffer(width, height int) (*FrameBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", core.ErrInvalidResolution, width, height)
	}
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*3),
	}, nil
}

// Offset returns the index of the red channel of pixel (i, j)
func (fb *FrameBuffer) Offset(i, j int) int {
	return (j*fb.Width + i) * 3
}

// Set stores the color of pixel (i, j)
func (fb *FrameBuffer) Set(i, j int, c core.Vec3) {
	o := fb.Offset(i, j)
	fb.Pix[o] = c[0]
	fb.Pix[o+1] = c[1]
	fb.Pix[o+2] = c[2]
}

// At returns the color of pixel (i, j)
func (fb *FrameBuffer) At(i, j int) core.Vec3 {
	o := fb.Offset(i, j)
	return core.NewVec3(fb.Pix[o], fb.Pix[o+1], fb.Pix[o+2])
}

// ToRGBA converts the buffer to an 8-bit image with the top row first
func (fb *FrameBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for j := 0; j < fb.Height; j++ {
		y := fb.Height - 1 - j
		for i := 0; i < fb.Width; i++ {
			c := core.Clamp(fb.At(i, j), 0, 1)
			img.SetRGBA(i, y, color.RGBA{
				R: to8(c[0]),
				G: to8(c[1]),
				B: to8(c[2]),
				A: 255,
			})
		}
	}
	return img
}

func to8(v float32) uint8 {
	return uint8(v*255 + 0.5)
}
