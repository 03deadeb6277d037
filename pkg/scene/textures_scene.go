package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewTexturesScene creates a scene showing the checkerboard and rainbow textures
// side by side on two large spheres
func NewTexturesScene(opts Options) (*Scene, error) {
	b := newBuilder("textures")
	b.scene.CameraConfig = geometry.CameraConfig{
		Position: core.NewVec3(0, 1, -2),
		LookAt:   core.NewVec3(0, 0, 8),
		Up:       core.NewVec3(0, 1, 0),
		FOV:      70,
	}

	checkerboard := material.NewTextured(material.TextureCheckerboard)
	rainbow := material.NewTextured(material.TextureRainbow)
	floor := b.phong(core.Splat(0.06), core.Splat(0.8), core.Splat(0.1), 0)
	backdrop := b.phong(core.NewVec3(0.06, 0.06, 0.09), core.NewVec3(0.7, 0.7, 1.0), core.Splat(0), 0)

	b.sphere(checkerboard, core.Compose(
		core.Translate(core.NewVec3(-2.5, 0, 8)),
		core.Scale(core.Splat(2)),
	))
	b.sphere(rainbow, core.Compose(
		core.Translate(core.NewVec3(2.5, 0, 8)),
		core.Scale(core.Splat(2)),
	))

	b.plane(core.NewVec3(0, -2, 0), core.NewVec3(0, -1, 0), floor)
	b.plane(core.NewVec3(0, 0, 20), core.NewVec3(0, 0, 1), backdrop)

	lightColor := core.Splat(0.3)
	b.light(core.NewVec3(0, 8, 0), lightColor)
	b.light(core.NewVec3(opts.LightX, 1, opts.LightZ-10), lightColor)

	return b.build()
}
