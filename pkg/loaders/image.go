package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// ImageData contains loaded image data as a Vec3 color array, top row first
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// LoadImage loads a PNG, JPEG, BMP or TIFF image and converts it to a Vec3 color array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects the format from the file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return FromImage(img), nil
}

// FromImage converts any image to ImageData with channels in [0,1]
func FromImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float32(r)/65535.0,
				float32(g)/65535.0,
				float32(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// RMSE returns the root mean square per-channel difference between two images of equal size
func (d *ImageData) RMSE(other *ImageData) (float64, error) {
	if d.Width != other.Width || d.Height != other.Height {
		return 0, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", d.Width, d.Height, other.Width, other.Height)
	}
	if len(d.Pixels) == 0 {
		return 0, nil
	}

	var sum float64
	for i, p := range d.Pixels {
		diff := p.Sub(other.Pixels[i])
		sum += float64(diff.Dot(diff))
	}
	return math.Sqrt(sum / float64(3*len(d.Pixels))), nil
}
