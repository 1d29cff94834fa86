package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writeTestImage(t *testing.T, path string, encode func(*os.File, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create image file: %v", err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
}

func TestLoadImage(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		encode func(*os.File, image.Image) error
	}{
		{"png", "test.png", func(f *os.File, img image.Image) error { return png.Encode(f, img) }},
		{"bmp", "test.bmp", func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeTestImage(t, path, tt.encode)

			data, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}
			if data.Width != 2 || data.Height != 2 {
				t.Fatalf("Expected 2x2 image, got %dx%d", data.Width, data.Height)
			}
			if data.Pixels[0].X() != 1 || data.Pixels[0].Y() != 0 {
				t.Errorf("Expected red top-left pixel, got %v", data.Pixels[0])
			}
			if data.Pixels[1].Y() != 1 {
				t.Errorf("Expected green top-right pixel, got %v", data.Pixels[1])
			}
			if data.Pixels[3].X() != 1 || data.Pixels[3].Y() != 1 || data.Pixels[3].Z() != 1 {
				t.Errorf("Expected white bottom-right pixel, got %v", data.Pixels[3])
			}
		})
	}
}

func TestLoadImage_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := LoadImage(garbage); err == nil {
		t.Error("Expected a decode error")
	}
}

func TestImageData_RMSE(t *testing.T) {
	black := image.NewRGBA(image.Rect(0, 0, 4, 4))
	white := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range white.Pix {
		white.Pix[i] = 255
	}
	for i := 3; i < len(black.Pix); i += 4 {
		black.Pix[i] = 255
	}

	a := FromImage(black)
	b := FromImage(white)

	if rmse, err := a.RMSE(a); err != nil || rmse != 0 {
		t.Errorf("Expected identical images to have RMSE 0, got %v (%v)", rmse, err)
	}
	rmse, err := a.RMSE(b)
	if err != nil {
		t.Fatalf("RMSE failed: %v", err)
	}
	if rmse < 0.999 || rmse > 1.001 {
		t.Errorf("Expected RMSE 1 between black and white, got %v", rmse)
	}

	small := FromImage(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if _, err := a.RMSE(small); err == nil {
		t.Error("Expected a size mismatch error")
	}
}
