package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// builder assembles a scene and keeps the first construction error, so scene
// definitions read as a flat list of objects
type builder struct {
	scene *Scene
	err   error
}

func newBuilder(name string) *builder {
	return &builder{scene: New(name)}
}

func (b *builder) phong(ambient, diffuse, specular core.Vec3, shininess float64) material.Material {
	if b.err != nil {
		return nil
	}
	mat, err := material.NewPhong(ambient, diffuse, specular, shininess)
	if err != nil {
		b.err = err
		return nil
	}
	return mat
}

func (b *builder) mirror(reflectiveness float64) material.Material {
	if b.err != nil {
		return nil
	}
	mat, err := material.NewReflective(reflectiveness)
	if err != nil {
		b.err = err
		return nil
	}
	return mat
}

func (b *builder) glass(refractiveness, indexRatio float64) material.Material {
	if b.err != nil {
		return nil
	}
	mat, err := material.NewRefractive(refractiveness, indexRatio)
	if err != nil {
		b.err = err
		return nil
	}
	return mat
}

func (b *builder) sphere(mat material.Material, objectToWorld mgl64.Mat4) {
	if b.err != nil {
		return
	}
	sphere, err := geometry.NewSphere(mat, objectToWorld)
	if err != nil {
		b.err = err
		return
	}
	b.scene.Add(sphere)
}

func (b *builder) cone(mat material.Material, objectToWorld mgl64.Mat4) {
	if b.err != nil {
		return
	}
	cone, err := geometry.NewCone(mat, objectToWorld)
	if err != nil {
		b.err = err
		return
	}
	b.scene.Add(cone)
}

func (b *builder) plane(point, normal core.Vec3, mat material.Material) {
	if b.err != nil {
		return
	}
	b.scene.Add(geometry.NewPlane(point, normal, mat))
}

func (b *builder) light(position, color core.Vec3) {
	b.scene.AddLight(position, color)
}

func (b *builder) build() (*Scene, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.scene.Validate(); err != nil {
		return nil, err
	}
	return b.scene, nil
}
