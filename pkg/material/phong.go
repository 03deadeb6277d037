package material

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Phong is a locally lit surface: ambient, Lambertian diffuse and cosine-power specular
type Phong struct {
	Ambient   core.Vec3 // Multiplied by the scene ambient level
	Diffuse   core.Vec3 // Used when Texture is TextureNone
	Specular  core.Vec3
	Shininess float64 // Specular exponent
	Texture   Texture // Optional UV texture replacing Diffuse
}

// NewPhong creates a new untextured Phong material
func NewPhong(ambient, diffuse, specular core.Vec3, shininess float64) (*Phong, error) {
	if shininess < 0 {
		return nil, fmt.Errorf("%w: shininess must be non-negative, got %f", ErrInvalidMaterial, shininess)
	}
	return &Phong{
		Ambient:   ambient,
		Diffuse:   diffuse,
		Specular:  specular,
		Shininess: shininess,
	}, nil
}

// NewTextured creates a Phong material whose diffuse color comes from a texture
func NewTextured(texture Texture) *Phong {
	return &Phong{
		Diffuse: core.Splat(1.0),
		Texture: texture,
	}
}

// Mode implements Material
func (p *Phong) Mode() Mode { return ModePhong }

func (p *Phong) sealed() {}

// DiffuseAt returns the texture color at uv, or the flat diffuse coefficient
// when no texture is bound
func (p *Phong) DiffuseAt(uv core.Vec2) core.Vec3 {
	if color, ok := p.Texture.Evaluate(uv); ok {
		return color
	}
	return p.Diffuse
}
