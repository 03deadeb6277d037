package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane defined directly in world space by a point and normal
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal vector
	material material.Material
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(), // Ensure normal is normalized
		material: mat,
	}
}

// Material implements Shape
func (p *Plane) Material() material.Material { return p.material }

// Intersect tests if a ray intersects with the plane. The recorded normal is the
// negated defining normal.
func (p *Plane) Intersect(ray core.Ray) (Hit, bool) {
	t, ok := p.solve(ray)
	if !ok {
		return Hit{}, false
	}

	point := ray.Origin.Add(ray.Direction.Normalize().Multiply(t))
	return Hit{
		Point:    point,
		Normal:   p.Normal.Negate(),
		Distance: point.Distance(ray.Origin),
		Shape:    p,
	}, true
}

// solve returns the distance along the normalized ray direction to the plane
func (p *Plane) solve(ray core.Ray) (float64, bool) {
	direction := ray.Direction.Normalize()

	// Ray parallel to the plane
	denominator := direction.Dot(p.Normal)
	if denominator == 0 {
		return 0, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < 0 {
		return 0, false
	}
	return t, true
}
