package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a pinhole camera
type CameraConfig struct {
	Position core.Vec3 // Eye position
	LookAt   core.Vec3 // Point the camera looks at
	Up       core.Vec3 // Up direction
	FOV      float64   // Horizontal field of view in degrees
}

// DefaultCameraConfig returns an eye at the origin looking down +Z with a 90° field of view
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, 1),
		Up:       core.NewVec3(0, 1, 0),
		FOV:      90,
	}
}

// ErrDegenerateCamera is returned for cameras with no usable view direction
var ErrDegenerateCamera = errors.New("degenerate camera")

// Validate rejects configurations NewCamera cannot build a basis from: a
// look-at point equal to the eye position, or an up vector parallel to the view.
// Zero fields are checked after falling back to DefaultCameraConfig.
func (c CameraConfig) Validate() error {
	merged := mergeCameraConfig(DefaultCameraConfig(), c)
	forward := merged.LookAt.Subtract(merged.Position)
	if forward.LengthSquared() == 0 {
		return fmt.Errorf("%w: look-at point %v equals position", ErrDegenerateCamera, merged.LookAt)
	}
	if merged.Up.Cross(forward).LengthSquared() == 0 {
		return fmt.Errorf("%w: up %v is parallel to the view direction", ErrDegenerateCamera, merged.Up)
	}
	return nil
}

// Camera generates one primary ray per pixel center
type Camera struct {
	origin    core.Vec3
	forward   core.Vec3
	right     core.Vec3
	up        core.Vec3
	pixelSize float64
	width     int
	height    int
}

// NewCamera creates a camera for an image of the given size. Zero fields in
// config fall back to DefaultCameraConfig.
func NewCamera(config CameraConfig, width, height int) *Camera {
	config = mergeCameraConfig(DefaultCameraConfig(), config)

	forward := config.LookAt.Subtract(config.Position).Normalize()
	right := config.Up.Cross(forward).Normalize()
	up := forward.Cross(right)

	return &Camera{
		origin:    config.Position,
		forward:   forward,
		right:     right,
		up:        up,
		pixelSize: 2 * math.Tan(config.FOV*math.Pi/360) / float64(width),
		width:     width,
		height:    height,
	}
}

// RayForPixel returns the ray through the center of pixel (i, j); row 0 is the top of the image
func (c *Camera) RayForPixel(i, j int) core.Ray {
	dx := -float64(c.width)*c.pixelSize/2 + (float64(i)+0.5)*c.pixelSize
	dy := float64(c.height)*c.pixelSize/2 - (float64(j)+0.5)*c.pixelSize

	direction := c.forward.
		Add(c.right.Multiply(dx)).
		Add(c.up.Multiply(dy)).
		Normalize()

	return core.NewRay(c.origin, direction)
}

// mergeCameraConfig fills zero-valued override fields from base. The origin is a
// valid eye position, so Position is always taken from override.
func mergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}
	result.Position = override.Position
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.FOV > 0 {
		result.FOV = override.FOV
	}
	return result
}
