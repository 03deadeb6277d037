package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Hit contains information about a ray-shape intersection
type Hit struct {
	Point    core.Vec3 // World-space point of intersection
	Normal   core.Vec3 // World-space unit normal, orientation chosen by the shape
	Distance float64   // World-space distance from the ray origin to Point
	UV       core.Vec2 // Texture coordinates, zero for shapes without a parameterization
	Shape    Shape     // The shape that was hit; owned by the scene
}

// objectHit is an intersection expressed in a shape's local coordinates
type objectHit struct {
	t      float64
	point  core.Vec3
	normal core.Vec3
	uv     core.Vec2
}

// toWorld converts a local intersection into a world-space Hit for the original ray
func (h objectHit) toWorld(transform core.Transform, ray core.Ray, shape Shape) Hit {
	point := transform.PointToWorld(h.point)
	return Hit{
		Point:    point,
		Normal:   transform.NormalToWorld(h.normal),
		Distance: point.Distance(ray.Origin),
		UV:       h.uv,
		Shape:    shape,
	}
}

// solveQuadratic returns the real roots of a*t^2 + b*t + c = 0 in ascending order
func solveQuadratic(a, b, c float64) (t0, t1 float64, ok bool) {
	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, 0, false
	}
	sqrtD := math.Sqrt(discriminant)
	t0 = (-b - sqrtD) / (2 * a)
	t1 = (-b + sqrtD) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}
