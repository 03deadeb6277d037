package material

import (
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Texture selects a procedural UV texture. U runs around the sphere's equator
// and V from the south pole (0) to the north pole (1).
type Texture int

const (
	TextureNone Texture = iota
	TextureCheckerboard
	TextureRainbow
)

const (
	checkerboardFrequency = 20.0
	rainbowFrequency      = 40.0
)

var rainbowColors = [3]core.Vec3{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
}

// ParseTexture converts a scene-file texture name into a Texture
func ParseTexture(name string) (Texture, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return TextureNone, nil
	case "checkerboard", "checker":
		return TextureCheckerboard, nil
	case "rainbow":
		return TextureRainbow, nil
	default:
		return TextureNone, fmt.Errorf("%w: unknown texture %q", ErrInvalidMaterial, name)
	}
}

// String returns the scene-file name of the texture
func (t Texture) String() string {
	switch t {
	case TextureCheckerboard:
		return "checkerboard"
	case TextureRainbow:
		return "rainbow"
	default:
		return "none"
	}
}

// Evaluate returns the texture color at uv. The second result is false for
// TextureNone, in which case the caller uses its flat diffuse color.
func (t Texture) Evaluate(uv core.Vec2) (core.Vec3, bool) {
	switch t {
	case TextureCheckerboard:
		n := checkerboardFrequency
		value := mod(int(math.Floor(n*uv.V)+math.Floor(2*n*uv.U)), 2)
		return core.Splat(float64(value)), true
	case TextureRainbow:
		n := rainbowFrequency
		index := mod(int(math.Floor(n*uv.U+0.5*n*uv.V)), 3)
		return rainbowColors[index], true
	default:
		return core.Vec3{}, false
	}
}

// mod returns the non-negative remainder of a divided by m
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
