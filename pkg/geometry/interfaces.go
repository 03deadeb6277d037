package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays. Intersect must be a pure
// function of the shape and the ray: it reports false for misses, tangents lost to
// precision, and intersections behind the ray origin.
type Shape interface {
	Intersect(ray core.Ray) (Hit, bool)
	Material() material.Material
}

// Transformed is implemented by shapes positioned with an object-to-world matrix
type Transformed interface {
	Transform() core.Transform
}
