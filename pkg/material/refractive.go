package material

import "fmt"

// Refractive is a transparent dielectric such as glass. Light is split between a
// reflected and a transmitted ray according to the Fresnel term.
type Refractive struct {
	Refractiveness float64 // Scales the transmitted contribution
	IndexRatio     float64 // Refractive index of the medium relative to the outside (delta)
}

// NewRefractive creates a new dielectric material
func NewRefractive(refractiveness, indexRatio float64) (*Refractive, error) {
	if indexRatio <= 0 {
		return nil, fmt.Errorf("%w: index ratio must be positive, got %f", ErrInvalidMaterial, indexRatio)
	}
	if refractiveness < 0 {
		return nil, fmt.Errorf("%w: refractiveness must be non-negative, got %f", ErrInvalidMaterial, refractiveness)
	}
	return &Refractive{Refractiveness: refractiveness, IndexRatio: indexRatio}, nil
}

// Mode implements Material
func (r *Refractive) Mode() Mode { return ModeRefractive }

func (r *Refractive) sealed() {}

// Ratios returns the index ratio for the ray's current side of the boundary and its
// complement: entering uses 1/delta, leaving uses delta.
func (r *Refractive) Ratios(inside bool) (beta, beta2 float64) {
	if inside {
		return r.IndexRatio, 1.0 / r.IndexRatio
	}
	return 1.0 / r.IndexRatio, r.IndexRatio
}
