package renderer

import (
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/raster"
)

// TileRenderer traces one primary ray per pixel center through an integrator
type TileRenderer struct {
	camera     *geometry.Camera
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given camera and integrator
func NewTileRenderer(camera *geometry.Camera, integratorInst integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		camera:     camera,
		integrator: integratorInst,
	}
}

// RenderTileBounds renders pixels within bounds into img and returns the
// number of pixels written. Bounds are clipped to the image.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, img *raster.Image) int {
	bounds = bounds.Intersect(img.Bounds())

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ray := tr.camera.RayForPixel(i, j)
			img.SetPixel(i, j, tr.integrator.RayColor(ray))
		}
	}

	return bounds.Dx() * bounds.Dy()
}
