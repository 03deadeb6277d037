package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewUnitSphere(nil)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	if hit, ok := sphere.Intersect(ray); ok {
		t.Errorf("Expected miss, but got hit at distance=%f", hit.Distance)
	}
}

func TestSphere_Intersect(t *testing.T) {
	tests := []struct {
		name             string
		origin           core.Vec3
		direction        core.Vec3
		expectedPoint    core.Vec3
		expectedNormal   core.Vec3
		expectedDistance float64
	}{
		{
			name:             "front hit from -z",
			origin:           core.NewVec3(0, 0, -5),
			direction:        core.NewVec3(0, 0, 1),
			expectedPoint:    core.NewVec3(0, 0, -1),
			expectedNormal:   core.NewVec3(0, 0, -1),
			expectedDistance: 4,
		},
		{
			name:             "unnormalized direction",
			origin:           core.NewVec3(0, 0, -5),
			direction:        core.NewVec3(0, 0, 3),
			expectedPoint:    core.NewVec3(0, 0, -1),
			expectedNormal:   core.NewVec3(0, 0, -1),
			expectedDistance: 4,
		},
		{
			name:             "from inside hits far side",
			origin:           core.NewVec3(0, 0, 0),
			direction:        core.NewVec3(0, 0, 1),
			expectedPoint:    core.NewVec3(0, 0, 1),
			expectedNormal:   core.NewVec3(0, 0, 1),
			expectedDistance: 1,
		},
		{
			name:             "glancing hit",
			origin:           core.NewVec3(1, 0, 2),
			direction:        core.NewVec3(0, 0, -1),
			expectedPoint:    core.NewVec3(1, 0, 0),
			expectedNormal:   core.NewVec3(1, 0, 0),
			expectedDistance: 2,
		},
	}

	sphere := NewUnitSphere(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := sphere.Intersect(core.NewRay(tt.origin, tt.direction))
			if !ok {
				t.Fatal("Expected hit, but got miss")
			}

			tolerance := 1e-6
			if !vecClose(hit.Point, tt.expectedPoint, tolerance) {
				t.Errorf("Expected point %v, got %v", tt.expectedPoint, hit.Point)
			}
			if !vecClose(hit.Normal, tt.expectedNormal, tolerance) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if math.Abs(hit.Distance-tt.expectedDistance) > tolerance {
				t.Errorf("Expected distance %f, got %f", tt.expectedDistance, hit.Distance)
			}
			if hit.Shape != sphere {
				t.Error("Expected hit to reference the sphere")
			}
		})
	}
}

func TestSphere_Intersect_BehindOrigin(t *testing.T) {
	sphere := NewUnitSphere(nil)
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1))

	if _, ok := sphere.Intersect(ray); ok {
		t.Error("Expected miss for sphere behind the ray origin")
	}
}

func TestSphere_Intersect_Transformed(t *testing.T) {
	sphere, err := NewSphere(nil, core.Compose(
		core.Translate(core.NewVec3(0, 0, 10)),
		core.Scale(core.NewVec3(2, 2, 2)),
	))
	if err != nil {
		t.Fatalf("NewSphere failed: %v", err)
	}

	hit, ok := sphere.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)))
	if !ok {
		t.Fatal("Expected hit, but got miss")
	}
	if !vecClose(hit.Point, core.NewVec3(0, 0, 8), 1e-9) {
		t.Errorf("Expected point (0,0,8), got %v", hit.Point)
	}
	if math.Abs(hit.Distance-8) > 1e-9 {
		t.Errorf("Expected world distance 8, got %f", hit.Distance)
	}
	if !vecClose(hit.Normal, core.NewVec3(0, 0, -1), 1e-9) {
		t.Errorf("Expected normal (0,0,-1), got %v", hit.Normal)
	}
}

func TestSphere_Intersect_NonUniformScaleNormal(t *testing.T) {
	sphere, err := NewSphere(nil, core.Scale(core.NewVec3(4, 1, 1)))
	if err != nil {
		t.Fatalf("NewSphere failed: %v", err)
	}

	hit, ok := sphere.Intersect(core.NewRay(core.NewVec3(2, 5, 0), core.NewVec3(0, -1, 0)))
	if !ok {
		t.Fatal("Expected hit on the ellipsoid")
	}
	if math.Abs(hit.Normal.Length()-1) > 1e-9 {
		t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
	}
	// Gradient of x²/16 + y² = 1 at (2, √0.75)
	expected := core.NewVec3(2.0/16.0, math.Sqrt(0.75), 0).Normalize()
	if !vecClose(hit.Normal, expected, 1e-9) {
		t.Errorf("Expected normal %v, got %v", expected, hit.Normal)
	}
}

func TestSphere_UV(t *testing.T) {
	sphere := NewUnitSphere(nil)
	hit, ok := sphere.Intersect(core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)))
	if !ok {
		t.Fatal("Expected hit")
	}

	// phi = atan2(-1, 0) = -π/2, theta = 0
	if math.Abs(hit.UV.U-0.25) > 1e-9 || math.Abs(hit.UV.V-0.5) > 1e-9 {
		t.Errorf("Expected uv (0.25, 0.5), got %v", hit.UV)
	}

	top, ok := sphere.Intersect(core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)))
	if !ok {
		t.Fatal("Expected hit at the north pole")
	}
	if math.Abs(top.UV.V-1) > 1e-9 {
		t.Errorf("Expected v=1 at the north pole, got %f", top.UV.V)
	}
}

func TestNewSphere_SingularTransform(t *testing.T) {
	_, err := NewSphere(nil, core.Scale(core.NewVec3(0, 1, 1)))
	if !errors.Is(err, core.ErrSingularTransform) {
		t.Errorf("Expected ErrSingularTransform, got %v", err)
	}
}
