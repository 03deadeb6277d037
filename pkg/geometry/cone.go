package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Cone is the unit cone x² + z² = y² with its apex at the local origin, clipped to
// 0 <= y <= 1 and closed by a unit disk at y = 1
type Cone struct {
	material  material.Material
	transform core.Transform
	cap       *Plane // Local-space capping plane
}

// NewCone creates a new cone with the given object-to-world matrix
func NewCone(mat material.Material, objectToWorld mgl64.Mat4) (*Cone, error) {
	transform, err := core.NewTransform(objectToWorld)
	if err != nil {
		return nil, fmt.Errorf("cone: %w", err)
	}
	return &Cone{
		material:  mat,
		transform: transform,
		cap:       NewPlane(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), nil),
	}, nil
}

// Material implements Shape
func (c *Cone) Material() material.Material { return c.material }

// Transform implements Transformed
func (c *Cone) Transform() core.Transform { return c.transform }

// Intersect tests if a ray intersects with the cone body or its cap
func (c *Cone) Intersect(ray core.Ray) (Hit, bool) {
	local := c.transform.RayToObject(ray)

	var best objectHit
	found := false

	if t, ok := c.hitBody(local); ok {
		point := local.At(t)
		best = objectHit{
			t:      t,
			point:  point,
			normal: core.NewVec3(point.X, -point.Y, point.Z).Normalize(),
		}
		found = true
	}

	// The cap replaces the body hit only when it is closer and inside the unit disk
	if t, ok := c.cap.solve(local); ok && (!found || t < best.t) {
		point := local.At(t)
		if point.Distance(c.cap.Point) <= 1.0 {
			best = objectHit{
				t:      t,
				point:  point,
				normal: c.cap.Normal,
			}
			found = true
		}
	}

	if !found {
		return Hit{}, false
	}
	return best.toWorld(c.transform, ray, c), true
}

// hitBody returns the nearest lateral-surface intersection with 0 <= y <= 1
func (c *Cone) hitBody(local core.Ray) (float64, bool) {
	o, d := local.Origin, local.Direction

	a := d.X*d.X + d.Z*d.Z - d.Y*d.Y
	b := 2 * (d.X*o.X + d.Z*o.Z - d.Y*o.Y)
	cc := o.X*o.X + o.Z*o.Z - o.Y*o.Y

	// Ray parallel to a generating line: at most one crossing
	if a == 0 {
		if b == 0 {
			return 0, false
		}
		t := -cc / b
		return t, c.validBodyRoot(local, t)
	}

	t0, t1, ok := solveQuadratic(a, b, cc)
	if !ok {
		return 0, false
	}
	if c.validBodyRoot(local, t0) {
		return t0, true
	}
	if c.validBodyRoot(local, t1) {
		return t1, true
	}
	return 0, false
}

func (c *Cone) validBodyRoot(local core.Ray, t float64) bool {
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return false
	}
	y := local.At(t).Y
	return y >= 0 && y <= 1
}
