package scene

import "github.com/achilleasa/lumen/types"

// A participating medium.
type Medium interface {
	// Estimate the transmittance along the ray segment (0, ray.TMax). Each
	// returned channel must lie in [0, 1]. The sampler supplies any random
	// variates required by stochastic estimators.
	Tr(ray Ray, sampler Sampler) types.Spectrum
}

// The media on either side of a surface. Inside is the medium on the side
// opposite to the geometric normal.
type MediumInterface struct {
	Inside  Medium
	Outside Medium
}

// Create a medium interface that separates two different media.
func NewMediumInterface(inside, outside Medium) *MediumInterface {
	return &MediumInterface{Inside: inside, Outside: outside}
}

// Returns true if the interface separates two different media.
func (mi *MediumInterface) IsTransition() bool {
	return mi != nil && mi.Inside != mi.Outside
}
