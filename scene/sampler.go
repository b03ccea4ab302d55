package scene

import "github.com/achilleasa/lumen/types"

// A source of uniform random variates in [0, 1). Samplers are stateful and
// must not be shared between goroutines.
type Sampler interface {
	Get1D() float32
	Get2D() types.Vec2
}
