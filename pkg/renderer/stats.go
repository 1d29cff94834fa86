package renderer

import (
	"math"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	MinSamples     int           // Minimum samples taken by any pixel
	MaxSamplesUsed int           // Maximum samples taken by any pixel
	Duration       time.Duration // Wall time of the render
}

// addPixel records a pixel that received samplesUsed samples
func (s *RenderStats) addPixel(samplesUsed int) {
	if s.TotalPixels == 0 {
		s.MinSamples = samplesUsed
	}
	s.TotalPixels++
	s.TotalSamples += samplesUsed
	s.MinSamples = min(s.MinSamples, samplesUsed)
	s.MaxSamplesUsed = max(s.MaxSamplesUsed, samplesUsed)
}

// merge folds the statistics of another region into s
func (s *RenderStats) merge(other RenderStats) {
	if other.TotalPixels == 0 {
		return
	}
	if s.TotalPixels == 0 {
		s.MinSamples = other.MinSamples
	}
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.MinSamples = min(s.MinSamples, other.MinSamples)
	s.MaxSamplesUsed = max(s.MaxSamplesUsed, other.MaxSamplesUsed)
}

// finalize computes derived values
func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for convergence
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := float64(core.Luminance(color))
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// Color returns the current average color for this pixel
func (ps *PixelStats) Color() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Mul(1 / float32(ps.SampleCount))
}

// MeanLuminance returns the average luminance of the samples
func (ps *PixelStats) MeanLuminance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	return ps.LuminanceAccum / float64(ps.SampleCount)
}

// LuminanceVariance returns the population variance of the sample luminances
func (ps *PixelStats) LuminanceVariance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	mean := ps.MeanLuminance()
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	return math.Max(0, meanSq-mean*mean)
}

// AverageLuminance returns the mean luminance of all pixels in the frame buffer
func AverageLuminance(fb *FrameBuffer) float64 {
	n := fb.Width * fb.Height
	if n == 0 {
		return 0
	}
	var sum float64
	for j := 0; j < fb.Height; j++ {
		for i := 0; i < fb.Width; i++ {
			sum += float64(core.Luminance(fb.At(i, j)))
		}
	}
	return sum / float64(n)
}
