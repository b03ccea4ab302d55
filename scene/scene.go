package scene

import (
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/metrics"
	"github.com/achilleasa/lumen/types"
	"github.com/google/uuid"
)

// The default cap on the number of materialless surfaces a transmittance
// query may cross.
const DefaultMaxTransparentHops = 256

type Option func(*Scene)

// Record query statistics into the supplied counters instead of a private set.
func WithCounters(counters *metrics.Counters) Option {
	return func(s *Scene) {
		s.counters = counters
	}
}

// Use a specific logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Scene) {
		s.logger = logger
	}
}

// Set the maximum number of materialless surfaces a transmittance query may
// cross before the query is abandoned. A value of 0 removes the cap.
func WithMaxTransparentHops(hops int) Option {
	return func(s *Scene) {
		if hops < 0 {
			hops = 0
		}
		s.maxTransparentHops = hops
	}
}

// A scene answers ray queries against an immutable aggregate. It holds no
// per-query state and is safe for concurrent use once constructed.
type Scene struct {
	id         uuid.UUID
	aggregate  Aggregate
	worldBound types.Bounds3

	lights         []Light
	infiniteLights []Light

	counters           *metrics.Counters
	logger             log.Logger
	maxTransparentHops int
}

// Create a new scene. Lights implementing Preprocessor are preprocessed once
// the scene is fully set up.
func New(aggregate Aggregate, lights []Light, opts ...Option) *Scene {
	if aggregate == nil {
		panic(ErrNilAggregate)
	}

	s := &Scene{
		id:                 uuid.New(),
		aggregate:          aggregate,
		worldBound:         aggregate.WorldBound(),
		lights:             lights,
		maxTransparentHops: DefaultMaxTransparentHops,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.counters == nil {
		s.counters = metrics.NewCounters()
	}
	if s.logger == nil {
		s.logger = log.New("scene")
	}

	for _, light := range lights {
		if pp, ok := light.(Preprocessor); ok {
			pp.Preprocess(s)
		}
		if light.Flags()&InfiniteLight != 0 {
			s.infiniteLights = append(s.infiniteLights, light)
		}
	}

	s.logger.Infof(
		"created scene %s with %d leaf primitives, %d lights; bounds %v - %v",
		s.id, aggregate.Leaves().Len(), len(lights), s.worldBound.Min, s.worldBound.Max,
	)
	return s
}

// Get the unique scene id.
func (s *Scene) ID() uuid.UUID {
	return s.id
}

// Get the root aggregate.
func (s *Scene) Aggregate() Aggregate {
	return s.aggregate
}

// Get the scene bounds.
func (s *Scene) WorldBound() types.Bounds3 {
	return s.worldBound
}

// Get all scene lights.
func (s *Scene) Lights() []Light {
	return s.lights
}

// Get the lights with the InfiniteLight flag set.
func (s *Scene) InfiniteLights() []Light {
	return s.infiniteLights
}

// Get the statistics counters updated by scene queries.
func (s *Scene) Counters() *metrics.Counters {
	return s.counters
}

// Find the nearest surface along the ray. Calling Intersect with a zero
// direction ray panics with ErrZeroDirection.
func (s *Scene) Intersect(ray Ray, isect *SurfaceInteraction) bool {
	s.counters.CountIntersectionTest()
	mustHaveDirection(ray)
	return s.aggregate.Intersect(ray, isect)
}

// Returns true if any surface lies along the ray. The result always agrees
// with Intersect for the same ray.
func (s *Scene) IntersectP(ray Ray) bool {
	s.counters.CountShadowTest()
	mustHaveDirection(ray)
	return s.aggregate.IntersectP(ray)
}

// Find the nearest surface with a material along the ray, passing through
// materialless surfaces. The returned spectrum is the transmittance of the
// media crossed on the way.
//
// If the ray crosses more materialless surfaces than the configured cap the
// query is treated as a degenerate scene: it reports no hit and zero
// transmittance.
func (s *Scene) IntersectTr(ray Ray, sampler Sampler, isect *SurfaceInteraction) (bool, types.Spectrum) {
	tr := types.OneSpectrum()
	for hops := 0; ; hops++ {
		hitSurface := s.Intersect(ray, isect)

		if ray.Medium != nil {
			segment := ray
			if hitSurface {
				segment.TMax = isect.T
			}
			tr = tr.Mul(ray.Medium.Tr(segment, sampler))
		}

		if !hitSurface {
			return false, tr
		}
		if isect.Material() != nil {
			return true, tr
		}

		if s.maxTransparentHops > 0 && hops >= s.maxTransparentHops {
			s.counters.CountDegenerateChain()
			s.logger.Debugf(
				"scene %s: transmittance ray from %v along %v crossed more than %d materialless surfaces",
				s.id, ray.Origin, ray.Dir, s.maxTransparentHops,
			)
			return false, types.Spectrum{}
		}

		ray = isect.SpawnRay(ray.Dir)
		s.counters.CountTransmittanceHop()
	}
}
