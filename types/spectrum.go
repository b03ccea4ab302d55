package types

import (
	"fmt"
	"math"
)

// Number of spectral channels carried by a Spectrum.
const SpectrumChannels = 3

// An RGB spectrum used for radiance and attenuation values. Attenuations
// compose by component-wise multiplication.
type Spectrum [SpectrumChannels]float32

// Create a spectrum with all channels set to v.
func ConstSpectrum(v float32) Spectrum {
	return Spectrum{v, v, v}
}

// The multiplicative identity.
func OneSpectrum() Spectrum {
	return ConstSpectrum(1)
}

// Create an RGB spectrum.
func RGB(r, g, b float32) Spectrum {
	return Spectrum{r, g, b}
}

// Component-wise product.
func (s Spectrum) Mul(s2 Spectrum) Spectrum {
	return Spectrum{s[0] * s2[0], s[1] * s2[1], s[2] * s2[2]}
}

// Component-wise sum.
func (s Spectrum) Add(s2 Spectrum) Spectrum {
	return Spectrum{s[0] + s2[0], s[1] + s2[1], s[2] + s2[2]}
}

// Multiply all channels with a scalar.
func (s Spectrum) Scale(v float32) Spectrum {
	return Spectrum{s[0] * v, s[1] * v, s[2] * v}
}

// Component-wise exp(s).
func (s Spectrum) Exp() Spectrum {
	var out Spectrum
	for i := range s {
		out[i] = float32(math.Exp(float64(s[i])))
	}
	return out
}

// Returns true if all channels are zero.
func (s Spectrum) IsBlack() bool {
	return s[0] == 0 && s[1] == 0 && s[2] == 0
}

// Largest channel value.
func (s Spectrum) MaxComponent() float32 {
	return max(s[0], s[1], s[2])
}

// Average of all channels.
func (s Spectrum) Average() float32 {
	return (s[0] + s[1] + s[2]) / SpectrumChannels
}

// Returns true if any channel is NaN.
func (s Spectrum) HasNaN() bool {
	return s[0] != s[0] || s[1] != s[1] || s[2] != s[2]
}

func (s Spectrum) String() string {
	return fmt.Sprintf("[%g, %g, %g]", s[0], s[1], s[2])
}
