package renderer

import (
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/df07/go-whitted-raytracer/pkg/raster"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	Tiles            int           // Number of tiles rendered
	Workers          int           // Number of parallel workers
	Duration         time.Duration // Wall-clock render time
	AverageLuminance float64       // Mean Rec. 709 luminance of the output
}

// FPS returns how many frames per second this render rate corresponds to
func (s RenderStats) FPS() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return 1 / s.Duration.Seconds()
}

// PixelsPerSecond returns the render throughput
func (s RenderStats) PixelsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalPixels) / s.Duration.Seconds()
}

// MarshalLogObject lets stats be logged with zap.Object
func (s RenderStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("pixels", s.TotalPixels)
	enc.AddInt("tiles", s.Tiles)
	enc.AddInt("workers", s.Workers)
	enc.AddDuration("duration", s.Duration)
	enc.AddFloat64("fps", s.FPS())
	enc.AddFloat64("avg_luminance", s.AverageLuminance)
	return nil
}

// CalculateAverageLuminance returns the mean luminance of all pixels
func CalculateAverageLuminance(img *raster.Image) float64 {
	width, height := img.Width(), img.Height()
	if width == 0 || height == 0 {
		return 0
	}

	total := 0.0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.At(x, y)
			total += 0.2126*c.X + 0.7152*c.Y + 0.0722*c.Z
		}
	}
	return total / float64(width*height)
}
