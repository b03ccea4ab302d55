package scene

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

// A semi-infinite ray segment. Rays are passed by value; queries never
// modify the caller's copy.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3

	// The ray covers the parametric range (0, TMax).
	TMax float32

	// The medium the ray origin lies in. A nil medium is vacuum.
	Medium Medium
}

// Create a new unbounded ray.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		TMax:   float32(math.Inf(1)),
	}
}

// Get the point at parametric distance t along the ray.
func (r Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Return a copy of the ray with its extent limited to tMax.
func (r Ray) WithTMax(tMax float32) Ray {
	r.TMax = tMax
	return r
}

// Panic with ErrZeroDirection if the ray has a zero direction vector.
func mustHaveDirection(r Ray) {
	if r.Dir.IsZero() {
		panic(ErrZeroDirection)
	}
}
