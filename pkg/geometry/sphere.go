package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere is the unit sphere at the local origin placed in the world by a transform
type Sphere struct {
	material  material.Material
	transform core.Transform
}

// NewSphere creates a new sphere with the given object-to-world matrix
func NewSphere(mat material.Material, objectToWorld mgl64.Mat4) (*Sphere, error) {
	transform, err := core.NewTransform(objectToWorld)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return &Sphere{material: mat, transform: transform}, nil
}

// NewUnitSphere creates an untransformed unit sphere at the origin
func NewUnitSphere(mat material.Material) *Sphere {
	return &Sphere{material: mat, transform: core.Identity()}
}

// Material implements Shape
func (s *Sphere) Material() material.Material { return s.material }

// Transform implements Transformed
func (s *Sphere) Transform() core.Transform { return s.transform }

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray) (Hit, bool) {
	local := s.transform.RayToObject(ray)
	o, d := local.Origin, local.Direction

	// |o + t*d|^2 = 1 with |d| = 1
	t0, t1, ok := solveQuadratic(1.0, 2*o.Dot(d), o.Dot(o)-1.0)
	if !ok {
		return Hit{}, false
	}

	// Nearest root in front of the origin
	t := t0
	if t < 0 {
		t = t1
		if t < 0 {
			return Hit{}, false
		}
	}

	point := local.At(t)
	normal := point.Normalize()

	hit := objectHit{
		t:      t,
		point:  point,
		normal: normal,
		uv:     sphereUV(normal),
	}
	return hit.toWorld(s.transform, ray, s), true
}

// sphereUV maps a unit normal to u = azimuth and v = elevation, both in [0,1]
func sphereUV(n core.Vec3) core.Vec2 {
	theta := math.Asin(max(-1, min(1, n.Y)))
	phi := math.Atan2(n.Z, n.X)
	return core.Vec2{
		U: (phi + math.Pi) / (2 * math.Pi),
		V: (theta + math.Pi/2) / math.Pi,
	}
}
