// Package sampler provides scene.Sampler implementations.
package sampler

import (
	"math/rand"

	"github.com/achilleasa/lumen/types"
)

// Produces pseudo-random variates from a seeded source. A Random sampler is
// not safe for concurrent use; give each worker its own instance.
type Random struct {
	rng *rand.Rand
}

// Create a new random sampler with the given seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Reset the sampler to the sequence produced by seed.
func (r *Random) Seed(seed int64) {
	r.rng.Seed(seed)
}

// Get1D implements scene.Sampler.
func (r *Random) Get1D() float32 {
	return r.rng.Float32()
}

// Get2D implements scene.Sampler.
func (r *Random) Get2D() types.Vec2 {
	return types.XY(r.rng.Float32(), r.rng.Float32())
}

// Replays a fixed sequence of values, wrapping around at the end. Useful for
// deterministic tests.
type Fixed struct {
	values []float32
	next   int
}

// Create a new fixed sampler. With no values every call returns 0.5.
func NewFixed(values ...float32) *Fixed {
	if len(values) == 0 {
		values = []float32{0.5}
	}
	return &Fixed{values: values}
}

// Get1D implements scene.Sampler.
func (f *Fixed) Get1D() float32 {
	v := f.values[f.next]
	f.next = (f.next + 1) % len(f.values)
	return v
}

// Get2D implements scene.Sampler.
func (f *Fixed) Get2D() types.Vec2 {
	return types.XY(f.Get1D(), f.Get1D())
}
