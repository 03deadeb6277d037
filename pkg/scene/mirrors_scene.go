package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// NewMirrorsScene creates a corridor between two parallel mirrors with a red and a
// glass sphere inside. Rays bounce between the mirrors until the tracer's depth
// limit stops them.
func NewMirrorsScene(opts Options) (*Scene, error) {
	b := newBuilder("mirrors")

	red := b.phong(core.NewVec3(0.09, 0.06, 0.06), core.NewVec3(1.0, 0.3, 0.3), core.Splat(0.5), 10)
	white := b.phong(core.Splat(0.06), core.Splat(0.8), core.Splat(0.1), 0)
	green := b.phong(core.NewVec3(0.06, 0.09, 0.06), core.NewVec3(0.7, 0.9, 0.7), core.Splat(0), 0)
	mirror := b.mirror(0.9)
	glass := b.glass(1.0, 1.5)

	b.sphere(red, core.Translate(core.NewVec3(-1.5, -2, 9)))
	b.sphere(glass, core.Compose(
		core.Translate(core.NewVec3(1.5, -1.5, 7)),
		core.Scale(core.Splat(1.5)),
	))

	// Facing mirrors on both sides of the corridor
	b.plane(core.NewVec3(-6, 0, 0), core.NewVec3(-1, 0, 0), mirror)
	b.plane(core.NewVec3(6, 0, 0), core.NewVec3(1, 0, 0), mirror)

	b.plane(core.NewVec3(0, -3, 0), core.NewVec3(0, -1, 0), white)
	b.plane(core.NewVec3(0, 12, 0), core.NewVec3(0, 1, 0), white)
	b.plane(core.NewVec3(0, 0, 25), core.NewVec3(0, 0, 1), green)

	lightColor := core.Splat(0.25)
	b.light(core.NewVec3(0, 10, 5), lightColor)
	b.light(core.NewVec3(opts.LightX, 1, opts.LightZ), lightColor)

	return b.build()
}
