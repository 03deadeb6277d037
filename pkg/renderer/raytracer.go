package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/raster"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrInvalidSize is returned for non-positive image dimensions
var ErrInvalidSize = errors.New("invalid image size")

// Config contains render loop configuration
type Config struct {
	TileSize int // Tile edge length in pixels
	Workers  int // Parallel workers; 0 means one per CPU
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize: DefaultTileSize,
		Workers:  0,
	}
}

// Raytracer renders a scene through a pinhole camera into a raster image
type Raytracer struct {
	scene      *scene.Scene
	camera     *geometry.Camera
	integrator integrator.Integrator
	width      int
	height     int
	config     Config
	logger     *zap.Logger
}

// NewRaytracer creates a new raytracer. The camera is built from the scene's
// camera configuration for the requested image size.
func NewRaytracer(s *scene.Scene, integratorInst integrator.Integrator, width, height int, config Config, logger *zap.Logger) (*Raytracer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: nil scene", scene.ErrInvalidScene)
	}
	if integratorInst == nil {
		integratorInst = integrator.NewWhitted(s)
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Raytracer{
		scene:      s,
		camera:     geometry.NewCamera(s.CameraConfig, width, height),
		integrator: integratorInst,
		width:      width,
		height:     height,
		config:     config,
		logger:     logger,
	}, nil
}

// Width returns the output width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the output height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// Camera returns the camera primary rays are generated from
func (rt *Raytracer) Camera() *geometry.Camera { return rt.camera }

// Render traces every pixel once and returns the finished image. Tiles do not
// overlap, so workers write the shared image without locking. On cancellation
// the partially rendered image is returned with the context error.
func (rt *Raytracer) Render(ctx context.Context) (*raster.Image, RenderStats, error) {
	img := raster.New(rt.width, rt.height)
	tiles := NewTileGrid(rt.width, rt.height, rt.config.TileSize)
	pool := NewWorkerPool(rt.config.Workers, rt.logger)
	tileRenderer := NewTileRenderer(rt.camera, rt.integrator)

	rt.logger.Info("render started",
		zap.String("scene", rt.scene.Name),
		zap.Int("width", rt.width),
		zap.Int("height", rt.height),
		zap.Int("shapes", len(rt.scene.Shapes)),
		zap.Int("lights", len(rt.scene.Lights)),
		zap.Int("tiles", len(tiles)),
		zap.Int("workers", pool.NumWorkers()),
	)

	var pixels atomic.Int64
	start := time.Now()
	completed, err := pool.Run(ctx, tiles, func(_ context.Context, tile *Tile) error {
		pixels.Add(int64(tileRenderer.RenderTileBounds(tile.Bounds, img)))
		return nil
	})

	stats := RenderStats{
		TotalPixels: int(pixels.Load()),
		Tiles:       completed,
		Workers:     pool.NumWorkers(),
		Duration:    time.Since(start),
	}
	if err != nil {
		rt.logger.Warn("render aborted", zap.Error(err), zap.Object("stats", stats))
		return img, stats, fmt.Errorf("render %q: %w", rt.scene.Name, err)
	}

	stats.AverageLuminance = CalculateAverageLuminance(img)
	rt.logger.Info("render finished", zap.Object("stats", stats))
	return img, stats, nil
}
