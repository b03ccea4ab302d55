// Package medium provides participating media for transmittance queries.
package medium

import (
	"math"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// A medium with constant absorption and scattering coefficients.
type Homogeneous struct {
	Name   string
	SigmaA types.Spectrum
	SigmaS types.Spectrum

	sigmaT types.Spectrum
}

// Create a new homogeneous medium.
func NewHomogeneous(name string, sigmaA, sigmaS types.Spectrum) *Homogeneous {
	return &Homogeneous{
		Name:   name,
		SigmaA: sigmaA,
		SigmaS: sigmaS,
		sigmaT: sigmaA.Add(sigmaS),
	}
}

// Tr implements scene.Medium using the Beer-Lambert law. The estimate is
// exact so the sampler is not used.
func (m *Homogeneous) Tr(ray scene.Ray, _ scene.Sampler) types.Spectrum {
	dist := ray.TMax * ray.Dir.Len()
	if dist > math.MaxFloat32 {
		dist = math.MaxFloat32
	}

	var tr types.Spectrum
	for i, st := range m.sigmaT {
		// Avoid 0*inf for non-attenuating channels.
		if st == 0 {
			tr[i] = 1
			continue
		}
		tr[i] = float32(math.Exp(-float64(st) * float64(dist)))
	}
	return tr
}
