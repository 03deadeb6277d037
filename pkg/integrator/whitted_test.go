package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// countingShape counts Intersect calls on the wrapped shape
type countingShape struct {
	geometry.Shape
	calls *int
}

func (c countingShape) Intersect(ray core.Ray) (geometry.Hit, bool) {
	*c.calls++
	hit, ok := c.Shape.Intersect(ray)
	if ok {
		hit.Shape = c
	}
	return hit, ok
}

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func mustPhong(t *testing.T, ambient, diffuse, specular core.Vec3, shininess float64) *material.Phong {
	t.Helper()
	mat, err := material.NewPhong(ambient, diffuse, specular, shininess)
	if err != nil {
		t.Fatalf("NewPhong failed: %v", err)
	}
	return mat
}

func ambientOnly(t *testing.T, ambient core.Vec3) *material.Phong {
	return mustPhong(t, ambient, core.Vec3{}, core.Vec3{}, 0)
}

func mustSphere(t *testing.T, mat material.Material, center core.Vec3, radius float64) *geometry.Sphere {
	t.Helper()
	sphere, err := geometry.NewSphere(mat, core.Compose(
		core.Translate(center),
		core.Scale(core.Splat(radius)),
	))
	if err != nil {
		t.Fatalf("NewSphere failed: %v", err)
	}
	return sphere
}

func TestWhitted_MissReturnsBlack(t *testing.T) {
	s := scene.New("miss")
	s.Add(mustSphere(t, ambientOnly(t, core.Splat(0.5)), core.NewVec3(0, 0, 5), 1))
	s.AddLight(core.NewVec3(0, 10, 0), core.Splat(100))

	w := NewWhitted(s)
	color := w.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
	if color != (core.Vec3{}) {
		t.Errorf("Expected black for a miss, got %v", color)
	}

	empty := NewWhitted(scene.New("empty"))
	if color := empty.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))); color != (core.Vec3{}) {
		t.Errorf("Expected black for an empty scene, got %v", color)
	}
}

func TestWhitted_PureAmbient(t *testing.T) {
	ambient := core.NewVec3(0.1, 0.2, 0.05)
	s := scene.New("ambient")
	s.Ambient = core.NewVec3(1, 0.5, 2)
	s.Add(geometry.NewPlane(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1), ambientOnly(t, ambient)))

	color := NewWhitted(s).RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)))

	expected := ToneMap(ambient.MultiplyVec(s.Ambient))
	if color != expected {
		t.Errorf("Expected %v, got %v", expected, color)
	}

	// (10·x³)^(1/3) = ∛10·x
	scale := math.Cbrt(10)
	if !vecClose(color, core.NewVec3(0.1*scale, 0.1*scale, 0.1*scale), 1e-12) {
		t.Errorf("Expected ∛10 scaling of the ambient term, got %v", color)
	}
}

func TestWhitted_PhongSingleLight(t *testing.T) {
	mat := mustPhong(t, core.Vec3{}, core.Splat(0.5), core.Splat(0.2), 10)
	s := scene.New("phong")
	s.Add(geometry.NewPlane(core.Vec3{}, core.NewVec3(0, -1, 0), mat))
	s.AddLight(core.NewVec3(0, 10, 0), core.Splat(0.1))

	color := NewWhitted(s).RayColor(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)))

	// Head-on light and view: diffuse 0.5, specular 0.2, distance 10
	attenuation := 1 / (1 + 0.001*10 + 0.001*100)
	expected := ToneMap(core.Splat((0.5 + 0.2) * 0.1 * attenuation))
	if !vecClose(color, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, color)
	}
}

func TestWhitted_LightBehindSurface(t *testing.T) {
	ambient := core.Splat(0.05)
	mat := mustPhong(t, ambient, core.Splat(1), core.Splat(1), 1)
	s := scene.New("behind")
	s.Add(geometry.NewPlane(core.Vec3{}, core.NewVec3(0, -1, 0), mat))
	s.AddLight(core.NewVec3(0, -10, 0), core.Splat(5))

	color := NewWhitted(s).RayColor(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)))
	if expected := ToneMap(ambient); color != expected {
		t.Errorf("Expected ambient only %v, got %v", expected, color)
	}
}

func TestWhitted_TieBreakKeepsFirstShape(t *testing.T) {
	first := ambientOnly(t, core.NewVec3(0.1, 0, 0))
	second := ambientOnly(t, core.NewVec3(0, 0.1, 0))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))

	tests := []struct {
		name     string
		order    []*material.Phong
		expected core.Vec3
	}{
		{"red first", []*material.Phong{first, second}, ToneMap(first.Ambient)},
		{"green first", []*material.Phong{second, first}, ToneMap(second.Ambient)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.New("tie")
			for _, mat := range tt.order {
				s.Add(mustSphere(t, mat, core.NewVec3(0, 0, 5), 1))
			}
			if color := NewWhitted(s).RayColor(ray); color != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, color)
			}
		})
	}
}

func TestWhitted_Reflective(t *testing.T) {
	wall := core.NewVec3(0.2, 0.1, 0.05)
	mirror, err := material.NewReflective(0.5)
	if err != nil {
		t.Fatalf("NewReflective failed: %v", err)
	}

	s := scene.New("mirror")
	s.Add(geometry.NewPlane(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1), mirror))
	s.Add(geometry.NewPlane(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1), ambientOnly(t, wall)))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))

	color := NewWhitted(s).RayColor(ray)
	expected := ToneMap(wall).Multiply(0.5)
	if !vecClose(color, expected, 1e-12) {
		t.Errorf("Expected half of the reflected wall %v, got %v", expected, color)
	}

	// With no recursion allowed the reflected ray is cut off
	if color := NewWhitted(s, WithMaxDepth(0)).RayColor(ray); color != (core.Vec3{}) {
		t.Errorf("Expected black with MaxDepth 0, got %v", color)
	}
}

func TestWhitted_FacingMirrorsTerminate(t *testing.T) {
	mirror, err := material.NewReflective(1)
	if err != nil {
		t.Fatalf("NewReflective failed: %v", err)
	}

	for _, maxDepth := range []int{0, 1, 5, 50} {
		calls := 0
		s := scene.New("mirrors")
		s.Add(
			countingShape{geometry.NewPlane(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), mirror), &calls},
			countingShape{geometry.NewPlane(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1), mirror), &calls},
		)
		s.AddLight(core.NewVec3(0, 0, 0), core.Splat(1))

		color := NewWhitted(s, WithMaxDepth(maxDepth)).RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)))
		if !color.IsFinite() {
			t.Errorf("MaxDepth %d: expected finite color, got %v", maxDepth, color)
		}
		if color != (core.Vec3{}) {
			t.Errorf("MaxDepth %d: expected black between perfect mirrors, got %v", maxDepth, color)
		}

		// Each trace from depth 0 to maxDepth scans both shapes once
		if expected := 2 * (maxDepth + 1); calls != expected {
			t.Errorf("MaxDepth %d: expected %d intersection tests, got %d", maxDepth, expected, calls)
		}
	}
}

func TestWhitted_RefractiveMatchedIndexPassesThrough(t *testing.T) {
	wall := core.NewVec3(0.2, 0.15, 0.1)

	tests := []struct {
		name           string
		refractiveness float64
		expected       core.Vec3
	}{
		{"full transmission", 1, ToneMap(wall)},
		// Scaled once entering and once leaving the sphere
		{"half transmission", 0.5, ToneMap(wall).Multiply(0.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glass, err := material.NewRefractive(tt.refractiveness, 1)
			if err != nil {
				t.Fatalf("NewRefractive failed: %v", err)
			}
			s := scene.New("glass")
			s.Add(mustSphere(t, glass, core.NewVec3(0, 0, 5), 1))
			s.Add(geometry.NewPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, 1), ambientOnly(t, wall)))

			color := NewWhitted(s).RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)))
			if !vecClose(color, tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, color)
			}
		})
	}
}

func TestWhitted_RefractiveFresnelBlend(t *testing.T) {
	back := core.NewVec3(0.3, 0.05, 0)   // seen by the reflected ray
	front := core.NewVec3(0, 0.1, 0.25) // seen by the refracted ray
	const refractiveness = 0.8

	tests := []struct {
		name      string
		direction core.Vec3
		inside    bool
		fresnel   float64
	}{
		// cos1 = 2/√5, ratios 1/1.5 then 1.5
		{"entering glass", core.NewVec3(0.5, 0, 1), false, 0.148430},
		// Same angle with the ratios swapped
		{"leaving glass", core.NewVec3(0.5, 0, 1), true, 0.152085},
		// sin1 = 2/√5 exceeds 1/1.5, so nothing is transmitted
		{"total internal reflection", core.NewVec3(2, 0, 1), true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glass, err := material.NewRefractive(refractiveness, 1.5)
			if err != nil {
				t.Fatalf("NewRefractive failed: %v", err)
			}
			s := scene.New("glass plane")
			s.Add(geometry.NewPlane(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1), glass))
			s.Add(geometry.NewPlane(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1), ambientOnly(t, back)))
			s.Add(geometry.NewPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, 1), ambientOnly(t, front)))

			ray := core.NewRay(core.Vec3{}, tt.direction.Normalize())
			color := NewWhitted(s).Trace(ray, tt.inside, 0)

			expected := ToneMap(back).Multiply(tt.fresnel).
				Add(ToneMap(front).Multiply(refractiveness * (1 - tt.fresnel)))
			if !vecClose(color, expected, 1e-5) {
				t.Errorf("Expected %v for F=%g, got %v", expected, tt.fresnel, color)
			}
		})
	}
}

func TestWhitted_RefractiveGlassIsFinite(t *testing.T) {
	s, err := scene.NewDefaultScene(scene.DefaultOptions())
	if err != nil {
		t.Fatalf("NewDefaultScene failed: %v", err)
	}
	w := NewWhitted(s)
	camera := geometry.NewCamera(s.CameraConfig, 64, 48)

	for j := 0; j < 48; j += 3 {
		for i := 0; i < 64; i += 3 {
			color := w.RayColor(camera.RayForPixel(i, j))
			if !color.IsFinite() {
				t.Fatalf("Pixel (%d,%d) is not finite: %v", i, j, color)
			}
			if color.X < 0 || color.Y < 0 || color.Z < 0 || color.X > 1 || color.Y > 1 || color.Z > 1 {
				t.Fatalf("Pixel (%d,%d) outside [0,1]: %v", i, j, color)
			}
		}
	}
}

func TestWhitted_ShadowVisibility(t *testing.T) {
	glass, err := material.NewRefractive(1, 1.5)
	if err != nil {
		t.Fatalf("NewRefractive failed: %v", err)
	}
	opaque := ambientOnly(t, core.Splat(0.1))
	floor := geometry.NewPlane(core.Vec3{}, core.NewVec3(0, -1, 0), opaque)
	light := scene.NewLight(core.NewVec3(0, 10, 0), core.Splat(1))

	tests := []struct {
		name       string
		occluders  []geometry.Shape
		visibility float64
	}{
		{"unoccluded", nil, 1},
		{"opaque occluder", []geometry.Shape{mustSphere(t, opaque, core.NewVec3(0, 5, 0), 1)}, 0},
		{"refractive occluder", []geometry.Shape{mustSphere(t, glass, core.NewVec3(0, 5, 0), 1)}, RefractiveShadowVisibility},
		{"refractive then opaque", []geometry.Shape{
			mustSphere(t, glass, core.NewVec3(0, 3, 0), 1),
			mustSphere(t, opaque, core.NewVec3(0, 7, 0), 1),
		}, 0},
		{"two refractive occluders", []geometry.Shape{
			mustSphere(t, glass, core.NewVec3(0, 3, 0), 1),
			mustSphere(t, glass, core.NewVec3(0, 7, 0), 1),
		}, RefractiveShadowVisibility},
		{"occluder beyond the light", []geometry.Shape{mustSphere(t, opaque, core.NewVec3(0, 20, 0), 1)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.New("shadow")
			s.Add(floor)
			s.Add(tt.occluders...)
			s.Lights = append(s.Lights, light)

			visibility := NewWhitted(s).ShadowVisibility(core.Vec3{}, light)
			if visibility != tt.visibility {
				t.Errorf("Expected visibility %f, got %f", tt.visibility, visibility)
			}
		})
	}
}

func TestWhitted_ShadowDarkensPhong(t *testing.T) {
	mat := mustPhong(t, core.Splat(0.02), core.Splat(0.8), core.Vec3{}, 0)
	s := scene.New("shadowed")
	s.Add(geometry.NewPlane(core.Vec3{}, core.NewVec3(0, -1, 0), mat))
	s.AddLight(core.NewVec3(0, 10, 0), core.Splat(0.5))
	ray := core.NewRay(core.NewVec3(3, 1, 0), core.NewVec3(-3, -1, 0))

	lit := NewWhitted(s).RayColor(ray)

	s.Add(mustSphere(t, mat, core.NewVec3(0, 5, 0), 1))
	shadowed := NewWhitted(s).RayColor(ray)

	if expected := ToneMap(core.Splat(0.02)); shadowed != expected {
		t.Errorf("Expected only ambient in shadow %v, got %v", expected, shadowed)
	}
	if lit.X <= shadowed.X {
		t.Errorf("Expected lit point %v to be brighter than shadowed point %v", lit, shadowed)
	}
}

func TestFresnel(t *testing.T) {
	t.Run("matched ratios transmit everything", func(t *testing.T) {
		for _, c := range []float64{0, 0.25, 0.5, 1} {
			for _, beta := range []float64{0.5, 1, 2} {
				if f := Fresnel(beta, beta, c, c); f != 0 {
					t.Errorf("Fresnel(%f, %f, %f, %f) = %f, want 0", beta, beta, c, c, f)
				}
			}
		}
	})

	t.Run("normal incidence", func(t *testing.T) {
		beta1, beta2 := 1/1.5, 1.5
		expected := math.Pow((beta1-beta2)/(beta1+beta2), 2)
		if f := Fresnel(beta1, beta2, 1, 1); math.Abs(f-expected) > 1e-12 {
			t.Errorf("Expected %f, got %f", expected, f)
		}
	})

	t.Run("grazing", func(t *testing.T) {
		if f := Fresnel(1/1.5, 1.5, 0, 0); f != 1 {
			t.Errorf("Expected full reflection at grazing incidence, got %f", f)
		}
	})

	t.Run("bounded", func(t *testing.T) {
		for c1 := 0.0; c1 <= 1; c1 += 0.1 {
			for c2 := 0.0; c2 <= 1; c2 += 0.1 {
				f := Fresnel(0.5, 2, c1, c2)
				if f < 0 || f > 1 || math.IsNaN(f) {
					t.Errorf("Fresnel(0.5, 2, %f, %f) = %f outside [0,1]", c1, c2, f)
				}
			}
		}
	})
}

func TestToneMap(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		expected core.Vec3
	}{
		{"black", core.Vec3{}, core.Vec3{}},
		{"negative clamps to zero", core.NewVec3(-1, -0.5, 0), core.Vec3{}},
		{"saturates", core.Splat(5), core.Splat(1)},
		{"linear region", core.NewVec3(0.1, 0.2, 0.3), core.NewVec3(0.1, 0.2, 0.3).Multiply(math.Cbrt(10))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ToneMap(tt.input); !vecClose(result, tt.expected, 1e-12) {
				t.Errorf("ToneMap(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithMaxDepth(t *testing.T) {
	s := scene.New("opts")
	if w := NewWhitted(s); w.MaxDepth != DefaultMaxDepth {
		t.Errorf("Expected default depth %d, got %d", DefaultMaxDepth, w.MaxDepth)
	}
	if w := NewWhitted(s, WithMaxDepth(-3)); w.MaxDepth != 0 {
		t.Errorf("Expected negative depth clamped to 0, got %d", w.MaxDepth)
	}
}
