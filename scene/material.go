package scene

import "github.com/achilleasa/lumen/types"

type MaterialType uint8

const (
	DiffuseMaterial MaterialType = iota
	SpecularMaterial
	RefractiveMaterial
	EmissiveMaterial
)

// Defines a surface material. Surfaces without a material are invisible to
// shading and only mark medium boundaries.
type Material struct {
	Name string

	// The type of the material.
	Type MaterialType

	// Diffuse color.
	Diffuse types.Spectrum

	// Emissive color (if material is light).
	Emissive types.Spectrum

	// Index of refraction (refractive materials only)
	IOR float32
}

// Create a new diffuse material.
func NewDiffuseMaterial(name string, diffuse types.Spectrum) *Material {
	return &Material{
		Name:    name,
		Type:    DiffuseMaterial,
		Diffuse: diffuse,
	}
}
