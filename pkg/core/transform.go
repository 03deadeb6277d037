package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrSingularTransform is returned when an object-to-world matrix cannot be inverted
var ErrSingularTransform = errors.New("transform is not invertible")

// singularThreshold is the smallest determinant magnitude accepted as invertible
const singularThreshold = 1e-12

// Transform holds an object-to-world affine matrix together with its derived
// world-to-object and normal matrices. It is immutable once built.
type Transform struct {
	objectToWorld mgl64.Mat4
	worldToObject mgl64.Mat4
	normalMatrix  mgl64.Mat4
}

// Identity returns the identity transform
func Identity() Transform {
	id := mgl64.Ident4()
	return Transform{objectToWorld: id, worldToObject: id, normalMatrix: id}
}

// NewTransform derives the inverse and normal matrices for m
func NewTransform(m mgl64.Mat4) (Transform, error) {
	det := m.Det()
	if math.Abs(det) < singularThreshold || math.IsNaN(det) {
		return Transform{}, fmt.Errorf("%w: determinant %g", ErrSingularTransform, det)
	}
	inv := m.Inv()
	return Transform{
		objectToWorld: m,
		worldToObject: inv,
		normalMatrix:  inv.Transpose(),
	}, nil
}

// Translate returns a translation matrix
func Translate(v Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(v.X, v.Y, v.Z)
}

// Scale returns a non-uniform scale matrix
func Scale(v Vec3) mgl64.Mat4 {
	return mgl64.Scale3D(v.X, v.Y, v.Z)
}

// RotateDegrees returns a rotation of angle degrees about axis
func RotateDegrees(degrees float64, axis Vec3) mgl64.Mat4 {
	a := axis.Normalize()
	return mgl64.HomogRotate3D(mgl64.DegToRad(degrees), mgl64.Vec3{a.X, a.Y, a.Z})
}

// Compose multiplies matrices left to right, so Compose(T, S, R) applies R first
func Compose(matrices ...mgl64.Mat4) mgl64.Mat4 {
	result := mgl64.Ident4()
	for _, m := range matrices {
		result = result.Mul4(m)
	}
	return result
}

// Matrix returns the object-to-world matrix
func (t Transform) Matrix() mgl64.Mat4 {
	return t.objectToWorld
}

// PointToObject maps a world-space point into object space
func (t Transform) PointToObject(p Vec3) Vec3 {
	return mulPoint(t.worldToObject, p)
}

// DirectionToObject maps a world-space direction into object space (no translation)
func (t Transform) DirectionToObject(d Vec3) Vec3 {
	return mulDirection(t.worldToObject, d)
}

// PointToWorld maps an object-space point into world space
func (t Transform) PointToWorld(p Vec3) Vec3 {
	return mulPoint(t.objectToWorld, p)
}

// NormalToWorld maps an object-space normal into world space and renormalizes it
func (t Transform) NormalToWorld(n Vec3) Vec3 {
	return mulDirection(t.normalMatrix, n).Normalize()
}

// RayToObject maps a world-space ray into object space with a normalized direction
func (t Transform) RayToObject(r Ray) Ray {
	return Ray{
		Origin:    t.PointToObject(r.Origin),
		Direction: t.DirectionToObject(r.Direction).Normalize(),
	}
}

func mulPoint(m mgl64.Mat4, p Vec3) Vec3 {
	v := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return Vec3{v[0], v[1], v[2]}
}

func mulDirection(m mgl64.Mat4, d Vec3) Vec3 {
	v := m.Mul4x1(mgl64.Vec4{d.X, d.Y, d.Z, 0})
	return Vec3{v[0], v[1], v[2]}
}
