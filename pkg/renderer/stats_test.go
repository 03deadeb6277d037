package renderer

import (
	"math"
	"testing"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/raster"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Red 0.2126, green 0.7152, blue 0.0722, black 0; mean 0.25
	img := raster.New(2, 2)
	img.SetPixel(0, 0, core.NewVec3(1, 0, 0))
	img.SetPixel(1, 0, core.NewVec3(0, 1, 0))
	img.SetPixel(0, 1, core.NewVec3(0, 0, 1))

	avgLum := CalculateAverageLuminance(img)
	if math.Abs(avgLum-0.25) > 1e-4 {
		t.Errorf("Expected average luminance 0.25, got %f", avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	img := raster.New(1, 1)
	img.SetPixel(0, 0, core.Splat(1))

	if avgLum := CalculateAverageLuminance(img); math.Abs(avgLum-1) > 1e-4 {
		t.Errorf("Expected average luminance 1.0, got %f", avgLum)
	}

	if avgLum := CalculateAverageLuminance(raster.New(0, 0)); avgLum != 0 {
		t.Errorf("Expected 0 for an empty image, got %f", avgLum)
	}
}

func TestRenderStatsRates(t *testing.T) {
	stats := RenderStats{TotalPixels: 1000, Duration: 250 * time.Millisecond}

	if fps := stats.FPS(); math.Abs(fps-4) > 1e-9 {
		t.Errorf("Expected 4 fps, got %f", fps)
	}
	if pps := stats.PixelsPerSecond(); math.Abs(pps-4000) > 1e-9 {
		t.Errorf("Expected 4000 pixels/s, got %f", pps)
	}

	var zero RenderStats
	if zero.FPS() != 0 || zero.PixelsPerSecond() != 0 {
		t.Error("Expected zero rates for a zero duration")
	}
}
