package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var (
	// ErrUnknownScene is returned when a scene name matches no built-in scene or scene file
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidScene is returned by Validate for scenes that cannot be rendered
	ErrInvalidScene = errors.New("invalid scene")
)

// Light is a point light source. Color is an intensity and may exceed 1.
type Light struct {
	Position core.Vec3
	Color    core.Vec3
}

// NewLight creates a point light
func NewLight(position, color core.Vec3) Light {
	return Light{Position: position, Color: color}
}

// Scene contains all the elements needed for rendering. It is built once and must
// not be mutated while a render is in progress.
type Scene struct {
	Name         string
	Shapes       []geometry.Shape // Objects in the scene; order breaks intersection ties
	Lights       []Light          // Lights in the scene
	Ambient      core.Vec3        // Global ambient light level
	CameraConfig geometry.CameraConfig
}

// New creates an empty scene with white ambient light and the default camera
func New(name string) *Scene {
	return &Scene{
		Name:         name,
		Shapes:       make([]geometry.Shape, 0),
		Lights:       make([]Light, 0),
		Ambient:      core.Splat(1),
		CameraConfig: geometry.DefaultCameraConfig(),
	}
}

// Add appends shapes in order
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// AddLight appends a point light
func (s *Scene) AddLight(position, color core.Vec3) {
	s.Lights = append(s.Lights, NewLight(position, color))
}

// Validate checks that every shape is present and carries a material
func (s *Scene) Validate() error {
	for i, shape := range s.Shapes {
		if shape == nil {
			return fmt.Errorf("%w: shape %d is nil", ErrInvalidScene, i)
		}
		if shape.Material() == nil {
			return fmt.Errorf("%w: shape %d (%T) has no material", ErrInvalidScene, i, shape)
		}
	}
	for i, light := range s.Lights {
		if !light.Position.IsFinite() || !light.Color.IsFinite() {
			return fmt.Errorf("%w: light %d is not finite", ErrInvalidScene, i)
		}
	}
	return nil
}

// CountByMode returns how many shapes use each shading mode
func (s *Scene) CountByMode() map[material.Mode]int {
	counts := make(map[material.Mode]int)
	for _, shape := range s.Shapes {
		if mat := shape.Material(); mat != nil {
			counts[mat.Mode()]++
		}
	}
	return counts
}
