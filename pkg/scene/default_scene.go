package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Options parameterise the built-in scenes
type Options struct {
	LightX float64 // X position of the movable light in the default scene
	LightZ float64 // Z position of the movable light in the default scene
}

// DefaultOptions returns the movable light at (0, 1, 12)
func DefaultOptions() Options {
	return Options{LightX: 0, LightZ: 12}
}

// NewDefaultScene creates the demo room: six walls, a red, a mirror, a glass and a
// rainbow-textured sphere, two cones and three point lights
func NewDefaultScene(opts Options) (*Scene, error) {
	b := newBuilder("default")

	// Create materials
	blueMatte := b.phong(core.NewVec3(0.06, 0.06, 0.09), core.NewVec3(0.7, 0.7, 1.0), core.Splat(0), 0)
	red := b.phong(core.NewVec3(0.09, 0.06, 0.06), core.NewVec3(1.0, 0.3, 0.3), core.Splat(0.5), 10)
	redMatte := b.phong(core.NewVec3(0.09, 0.06, 0.06), core.NewVec3(1.0, 0.3, 0.3), core.Splat(0), 0)
	green := b.phong(core.NewVec3(0.06, 0.09, 0.06), core.NewVec3(0.7, 0.9, 0.7), core.Splat(0), 0)
	yellow := b.phong(core.NewVec3(0.09, 0.09, 0.06), core.NewVec3(0.9, 0.9, 0.2), core.Splat(0.6), 80)
	white := b.phong(core.Splat(0.06), core.Splat(0.8), core.Splat(0.1), 0)
	mirror := b.mirror(1.0)
	glass := b.glass(1.0, 2.0)
	rainbow := material.NewTextured(material.TextureRainbow)

	// Spheres
	b.sphere(red, core.Compose(
		core.Translate(core.NewVec3(-1, -2.5, 6)),
		core.Scale(core.Splat(0.5)),
	))
	b.sphere(mirror, core.Translate(core.NewVec3(1, -2, 8)))
	b.sphere(glass, core.Compose(
		core.Translate(core.NewVec3(-3, -1, 8)),
		core.Scale(core.Splat(2)),
	))
	b.sphere(rainbow, core.Compose(
		core.Translate(core.NewVec3(-6, 4, 23)),
		core.Scale(core.Splat(7)),
	))

	// Walls, each normal pointing away from the room
	b.plane(core.NewVec3(0, 0, 30), core.NewVec3(0, 0, 1), green)
	b.plane(core.NewVec3(0, 0, -0.01), core.NewVec3(0, 0, -1), green)
	b.plane(core.NewVec3(15, 0, 0), core.NewVec3(1, 0, 0), blueMatte)
	b.plane(core.NewVec3(-15, 0, 0), core.NewVec3(-1, 0, 0), redMatte)
	b.plane(core.NewVec3(0, 27, 0), core.NewVec3(0, 1, 0), white)
	b.plane(core.NewVec3(0, -3, 0), core.NewVec3(0, -1, 0), white)

	// Cones: a tall upside-down one hanging from the ceiling and a tilted one on the floor
	b.cone(yellow, core.Compose(
		core.Translate(core.NewVec3(5, 9, 14)),
		core.Scale(core.NewVec3(3, 12, 3)),
		core.RotateDegrees(180, core.NewVec3(1, 0, 0)),
	))
	b.cone(green, core.Compose(
		core.Translate(core.NewVec3(6, -3, 7)),
		core.RotateDegrees(mgl64.RadToDeg(math.Atan(3)), core.NewVec3(0, 0, 1)),
		core.Scale(core.NewVec3(1, 3, 1)),
	))

	lightColor := core.Splat(0.2)
	b.light(core.NewVec3(0, 26, 5), lightColor)
	b.light(core.NewVec3(opts.LightX, 1, opts.LightZ), lightColor)
	b.light(core.NewVec3(0, 5, 1), lightColor)

	return b.build()
}
