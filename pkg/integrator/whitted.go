package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const (
	// Epsilon offsets secondary ray origins to avoid re-hitting the surface they leave
	Epsilon = 1e-3

	// RefractiveShadowVisibility is the fraction of light let through by a
	// refractive occluder. It is a fixed approximation, not a transmittance.
	RefractiveShadowVisibility = 0.4

	// DefaultMaxDepth bounds reflection and refraction recursion
	DefaultMaxDepth = 5
)

// Light attenuation 1 / (a + b*d + c*d²)
const (
	attenuationConstant  = 1.0
	attenuationLinear    = 0.001
	attenuationQuadratic = 0.001
)

// Tone mapping (alpha * x^beta)^(1/gamma)
const (
	toneAlpha = 10.0
	toneBeta  = 3.0
	toneGamma = 3.0
)

// Whitted is a recursive ray tracer with Phong shading, hard shadows, mirror
// reflection and Fresnel-weighted refraction. It holds no mutable state, so one
// instance can serve any number of goroutines.
type Whitted struct {
	scene    *scene.Scene
	MaxDepth int
}

// Option configures a Whitted integrator
type Option func(*Whitted)

// WithMaxDepth sets the recursion limit. Negative values are treated as zero.
func WithMaxDepth(depth int) Option {
	return func(w *Whitted) {
		w.MaxDepth = max(depth, 0)
	}
}

// NewWhitted creates a new Whitted integrator for the scene
func NewWhitted(s *scene.Scene, opts ...Option) *Whitted {
	w := &Whitted{scene: s, MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RayColor implements Integrator by tracing a primary ray from outside any medium
func (w *Whitted) RayColor(ray core.Ray) core.Vec3 {
	return w.Trace(ray, false, 0)
}

// Closest scans every shape and returns the nearest hit. Ties keep the shape
// that comes first in the scene.
func (w *Whitted) Closest(ray core.Ray) (geometry.Hit, bool) {
	var closest geometry.Hit
	found := false
	for _, shape := range w.scene.Shapes {
		hit, ok := shape.Intersect(ray)
		if !ok || hit.Distance < 0 {
			continue
		}
		if !found || hit.Distance < closest.Distance {
			closest = hit
			found = true
		}
	}
	return closest, found
}

// Trace returns the color seen along ray. inside reports whether the ray travels
// through a refractive medium. Rays past MaxDepth and rays that miss are black.
func (w *Whitted) Trace(ray core.Ray, inside bool, depth int) core.Vec3 {
	if depth > w.MaxDepth {
		return core.Vec3{}
	}

	hit, ok := w.Closest(ray)
	if !ok {
		return core.Vec3{}
	}

	viewDir := ray.Direction.Negate().Normalize()
	return w.Shade(hit, viewDir, inside, depth)
}

// Shade computes the color leaving the hit point toward viewDir, which points
// from the surface back to the ray origin
func (w *Whitted) Shade(hit geometry.Hit, viewDir core.Vec3, inside bool, depth int) core.Vec3 {
	switch mat := hit.Shape.Material().(type) {
	case *material.Reflective:
		return w.shadeReflective(hit, viewDir, mat, inside, depth)
	case *material.Refractive:
		return w.shadeRefractive(hit, viewDir, mat, inside, depth)
	case *material.Phong:
		return w.shadePhong(hit, viewDir, mat)
	default:
		return core.Vec3{}
	}
}

// shadeReflective returns the mirrored ray's color scaled by the reflectiveness.
// No local lighting is added.
func (w *Whitted) shadeReflective(hit geometry.Hit, viewDir core.Vec3, mat *material.Reflective, inside bool, depth int) core.Vec3 {
	reflected := core.Reflect(viewDir.Negate(), hit.Normal).Normalize()
	ray := core.NewRay(hit.Point.Add(reflected.Multiply(Epsilon)), reflected)
	return w.Trace(ray, inside, depth+1).Multiply(mat.Reflectiveness)
}

// shadeRefractive blends the reflected and transmitted colors by the Fresnel term
func (w *Whitted) shadeRefractive(hit geometry.Hit, viewDir core.Vec3, mat *material.Refractive, inside bool, depth int) core.Vec3 {
	beta, beta2 := mat.Ratios(inside)

	// Refract the incident direction about the normal facing against it
	incident := viewDir.Negate()
	normal := hit.Normal
	if incident.Dot(normal) > 0 {
		normal = normal.Negate()
	}

	reflected := core.Reflect(incident, normal).Normalize()
	reflectedRay := core.NewRay(hit.Point.Add(reflected.Multiply(Epsilon)), reflected)
	reflectedColor := w.Trace(reflectedRay, inside, depth+1)

	fresnel := 1.0
	refractedColor := core.Vec3{}
	if refracted, ok := core.Refract(incident, normal, beta); ok {
		refracted = refracted.Normalize()
		cos1 := -incident.Dot(normal)
		cos2 := -refracted.Dot(normal)
		fresnel = Fresnel(beta, beta2, cos1, cos2)

		if fresnel < 1 {
			refractedRay := core.NewRay(hit.Point.Add(refracted.Multiply(Epsilon)), refracted)
			refractedColor = w.Trace(refractedRay, !inside, depth+1).Multiply(mat.Refractiveness)
		}
	}

	return reflectedColor.Multiply(fresnel).Add(refractedColor.Multiply(1 - fresnel))
}

// shadePhong evaluates ambient, diffuse and specular lighting from every light,
// each scaled by attenuation and shadow visibility, then tone maps the sum
func (w *Whitted) shadePhong(hit geometry.Hit, viewDir core.Vec3, mat *material.Phong) core.Vec3 {
	color := mat.Ambient.MultiplyVec(w.scene.Ambient)
	normal := hit.Normal

	for _, light := range w.scene.Lights {
		toLight := light.Position.Subtract(hit.Point).Normalize()
		cosPhi := normal.Dot(toLight)
		if cosPhi < 0 {
			continue // Light is behind the surface
		}

		visibility := w.ShadowVisibility(hit.Point, light)
		if visibility == 0 {
			continue
		}

		reflected := normal.Multiply(2 * cosPhi).Subtract(toLight).Normalize()
		cosAlpha := max(reflected.Dot(viewDir), 0)

		diffuse := mat.DiffuseAt(hit.UV).Multiply(cosPhi)
		specular := mat.Specular.Multiply(math.Pow(cosAlpha, mat.Shininess))

		distance := light.Position.Distance(hit.Point)
		attenuation := 1 / (attenuationConstant + attenuationLinear*distance + attenuationQuadratic*distance*distance)

		color = color.Add(diffuse.Add(specular).MultiplyVec(light.Color).Multiply(attenuation * visibility))
	}

	return ToneMap(color)
}

// ShadowVisibility casts a ray from point toward the light and returns 1 when
// nothing lies in between, 0 when an opaque shape does, and
// RefractiveShadowVisibility when only refractive shapes do
func (w *Whitted) ShadowVisibility(point core.Vec3, light scene.Light) float64 {
	toLight := light.Position.Subtract(point)
	lightDistance := toLight.Length()
	direction := toLight.Normalize()
	ray := core.NewRay(point.Add(direction.Multiply(Epsilon)), direction)

	visibility := 1.0
	for _, shape := range w.scene.Shapes {
		hit, ok := shape.Intersect(ray)
		if !ok || hit.Distance >= lightDistance {
			continue
		}
		if mat := shape.Material(); mat == nil || mat.Mode() != material.ModeRefractive {
			return 0
		}
		visibility = RefractiveShadowVisibility
	}
	return visibility
}

// Fresnel returns the reflected fraction at a boundary with index ratios beta1
// and beta2, incident cosine cos1 and transmitted cosine cos2. Equal ratios mean
// no boundary and give 0. A vanishing denominator is a grazing ray and gives 1.
func Fresnel(beta1, beta2, cos1, cos2 float64) float64 {
	if beta1 == beta2 {
		return 0
	}

	d1 := beta1*cos1 + beta2*cos2
	d2 := beta1*cos2 + beta2*cos1
	if d1 == 0 || d2 == 0 {
		return 1
	}

	p1 := (beta1*cos1 - beta2*cos2) / d1
	p2 := (beta1*cos2 - beta2*cos1) / d2
	f := 0.5 * (p1*p1 + p2*p2)
	if math.IsNaN(f) {
		return 1
	}
	return min(max(f, 0), 1)
}

// ToneMap compresses radiance into [0,1] per channel with (10·x³)^(1/3)
func ToneMap(c core.Vec3) core.Vec3 {
	return core.NewVec3(toneMapChannel(c.X), toneMapChannel(c.Y), toneMapChannel(c.Z))
}

func toneMapChannel(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	v := math.Pow(toneAlpha*math.Pow(x, toneBeta), 1/toneGamma)
	return min(v, 1)
}
