package renderer

import (
	"errors"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

func TestNewFrameBuffer(t *testing.T) {
	fb, err := NewFrameBuffer(4, 3)
	if err != nil {
		t.Fatalf("NewFrameBuffer failed: %v", err)
	}
	if len(fb.Pix) != 4*3*3 {
		t.Errorf("Expected %d channel values, got %d", 4*3*3, len(fb.Pix))
	}

	for _, size := range [][2]int{{0, 3}, {4, 0}, {-1, -1}} {
		if _, err := NewFrameBuffer(size[0], size[1]); !errors.Is(err, core.ErrInvalidResolution) {
			t.Errorf("%dx%d: expected ErrInvalidResolution, got %v", size[0], size[1], err)
		}
	}
}

func TestFrameBufferSetAt(t *testing.T) {
	fb, _ := NewFrameBuffer(4, 3)
	c := core.NewVec3(0.1, 0.2, 0.3)
	fb.Set(2, 1, c)

	if fb.At(2, 1) != c {
		t.Errorf("Expected %v, got %v", c, fb.At(2, 1))
	}
	// Row-major layout: (j*width + i)*3
	if o := fb.Offset(2, 1); o != (1*4+2)*3 || fb.Pix[o+1] != 0.2 {
		t.Errorf("Unexpected layout at offset %d: %v", o, fb.Pix[o:o+3])
	}
}

func TestFrameBufferToRGBA(t *testing.T) {
	fb, _ := NewFrameBuffer(2, 2)
	fb.Set(0, 0, core.NewVec3(1, 0, 0))    // bottom left
	fb.Set(1, 1, core.NewVec3(0, 0.5, 2))  // top right, out-of-range blue
	fb.Set(1, 0, core.NewVec3(-1, 0.2, 0)) // bottom right, negative red

	img := fb.ToRGBA()

	if got := img.RGBAAt(0, 1); got.R != 255 || got.G != 0 || got.A != 255 {
		t.Errorf("Expected red at the bottom-left image pixel, got %v", got)
	}
	if got := img.RGBAAt(1, 0); got.G != 128 || got.B != 255 {
		t.Errorf("Expected rounded green and clamped blue at top right, got %v", got)
	}
	if got := img.RGBAAt(1, 1); got.R != 0 || got.G != 51 {
		t.Errorf("Expected clamped red at bottom right, got %v", got)
	}
	if got := img.RGBAAt(0, 0); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("Expected black at top left, got %v", got)
	}
}
