package material

import "errors"

// ErrInvalidMaterial is returned when material parameters are out of range
var ErrInvalidMaterial = errors.New("invalid material")

// Mode identifies which shading branch a material takes. The branches are
// mutually exclusive: reflective and refractive surfaces get no local lighting.
type Mode int

const (
	ModePhong Mode = iota
	ModeReflective
	ModeRefractive
)

// String returns the scene-file name of the mode
func (m Mode) String() string {
	switch m {
	case ModePhong:
		return "phong"
	case ModeReflective:
		return "reflective"
	case ModeRefractive:
		return "refractive"
	default:
		return "unknown"
	}
}

// Material describes how a surface responds to light. It is implemented only
// by *Phong, *Reflective and *Refractive.
type Material interface {
	Mode() Mode
	sealed()
}
