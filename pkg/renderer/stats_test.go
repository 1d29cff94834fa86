package renderer

import (
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if ps.Color() != (core.Vec3{}) || ps.LuminanceVariance() != 0 {
		t.Errorf("Expected empty stats to be black with zero variance")
	}

	ps.AddSample(core.NewVec3(1, 1, 1))
	ps.AddSample(core.NewVec3(0, 0, 0))

	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if !vec3Equal(ps.Color(), core.NewVec3(0.5, 0.5, 0.5), tolerance) {
		t.Errorf("Expected average grey, got %v", ps.Color())
	}
	if !almostEqual(ps.MeanLuminance(), 0.5, tolerance) {
		t.Errorf("Expected mean luminance 0.5, got %f", ps.MeanLuminance())
	}
	if !almostEqual(ps.LuminanceVariance(), 0.25, tolerance) {
		t.Errorf("Expected variance 0.25, got %f", ps.LuminanceVariance())
	}
}

func TestRenderStatsMerge(t *testing.T) {
	var a, b RenderStats
	for _, n := range []int{4, 4, 2} {
		a.addPixel(n)
	}
	b.addPixel(8)

	var total RenderStats
	total.merge(a)
	total.merge(b)
	total.merge(RenderStats{})
	total.finalize()

	if total.TotalPixels != 4 || total.TotalSamples != 18 {
		t.Errorf("Expected 4 pixels / 18 samples, got %d / %d", total.TotalPixels, total.TotalSamples)
	}
	if total.MinSamples != 2 || total.MaxSamplesUsed != 8 {
		t.Errorf("Expected min 2 / max 8, got %d / %d", total.MinSamples, total.MaxSamplesUsed)
	}
	if !almostEqual(total.AverageSamples, 4.5, 1e-9) {
		t.Errorf("Expected average 4.5, got %f", total.AverageSamples)
	}
}

func TestAverageLuminance(t *testing.T) {
	// Red 0.299 + Green 0.587 + Blue 0.114 + Black 0 = 1.0 over 4 pixels
	fb, _ := NewFrameBuffer(2, 2)
	fb.Set(0, 0, core.NewVec3(1, 0, 0))
	fb.Set(1, 0, core.NewVec3(0, 1, 0))
	fb.Set(0, 1, core.NewVec3(0, 0, 1))

	if avg := AverageLuminance(fb); !almostEqual(avg, 0.25, tolerance) {
		t.Errorf("Expected average luminance 0.25, got %f", avg)
	}

	white, _ := NewFrameBuffer(1, 1)
	white.Set(0, 0, core.NewVec3(1, 1, 1))
	if avg := AverageLuminance(white); !almostEqual(avg, 1, tolerance) {
		t.Errorf("Expected average luminance 1, got %f", avg)
	}
}
