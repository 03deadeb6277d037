package material

import "fmt"

// Reflective is a perfect mirror. The color is the mirrored ray's color scaled by Reflectiveness.
type Reflective struct {
	Reflectiveness float64
}

// NewReflective creates a new mirror material
func NewReflective(reflectiveness float64) (*Reflective, error) {
	if reflectiveness < 0 {
		return nil, fmt.Errorf("%w: reflectiveness must be non-negative, got %f", ErrInvalidMaterial, reflectiveness)
	}
	return &Reflective{Reflectiveness: reflectiveness}, nil
}

// Mode implements Material
func (r *Reflective) Mode() Mode { return ModeReflective }

func (r *Reflective) sealed() {}
