package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the displayable color seen along a primary ray.
	// Implementations must be safe for concurrent use by render workers.
	RayColor(ray core.Ray) core.Vec3
}
