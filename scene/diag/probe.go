// Package diag implements consistency checks between scene geometry and the
// bounds reported by an aggregate. Nothing in this package is used by the
// ray query path.
package diag

import (
	"math"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// The default relative tolerance used to decide whether a crossing lies on
// the bound surface.
const DefaultEpsilon = 1e-4

type Option func(*config)

type config struct {
	axis        types.Vec3
	allVertices bool
	epsilon     float32
	logger      log.Logger
}

// Cast probe rays along the given direction instead of +Z.
func WithAxis(axis types.Vec3) Option {
	return func(c *config) {
		if !axis.IsZero() {
			c.axis = axis.Normalize()
		}
	}
}

// Probe from every polygon vertex rather than just the first one.
func WithAllVertices() Option {
	return func(c *config) {
		c.allVertices = true
	}
}

// Set the tolerance for the on-bound check. The tolerance is scaled by the
// largest extent of the bound (or 1 if the bound is smaller).
func WithEpsilon(eps float32) Option {
	return func(c *config) {
		c.epsilon = eps
	}
}

// Use a specific logger.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// The outcome of a single probe ray.
type ProbeResult struct {
	// Index of the leaf primitive in the aggregate leaf view.
	PrimitiveIndex int `json:"primitive_index"`

	// The polygon vertex the probe started from.
	Vertex int        `json:"vertex"`
	Origin types.Vec3 `json:"origin"`

	// Entry and exit distances and the selected crossing distance.
	T0 float32 `json:"t0"`
	T1 float32 `json:"t1"`
	T  float32 `json:"t"`

	Crossing types.Vec3 `json:"crossing"`

	// Distance of the crossing from the closest bound face.
	Distance float32 `json:"distance"`
	OnBound  bool    `json:"on_bound"`

	// False if the probe ray never crossed the bound.
	Found bool `json:"found"`
}

// A summary of a probe run.
type Report struct {
	Bound   types.Bounds3 `json:"bound"`
	Axis    types.Vec3    `json:"axis"`
	Leaves  int           `json:"leaves"`
	Results []ProbeResult `json:"results"`

	// Leaves that were not probed, keyed by primitive kind.
	SkippedByKind map[string]int `json:"skipped_by_kind"`

	// Geometric leaves whose shape is not a polygon, keyed by shape kind.
	SkippedByShape map[string]int `json:"skipped_by_shape"`

	// Probes without a bound crossing and probes whose crossing was off the
	// bound surface.
	NotFound int `json:"not_found"`
	OffBound int `json:"off_bound"`
}

// Returns true if every probe found an on-bound crossing.
func (r *Report) OK() bool {
	return r.NotFound == 0 && r.OffBound == 0
}

// Walk the leaves of an aggregate and check that probe rays cast from polygon
// vertices cross the aggregate bound. The aggregate is only read.
func Probe(agg scene.Aggregate, opts ...Option) Report {
	cfg := config{
		axis:    types.XYZ(0, 0, 1),
		epsilon: DefaultEpsilon,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New("probe")
	}

	bound := agg.WorldBound()
	leaves := agg.Leaves()
	report := Report{
		Bound:          bound,
		Axis:           cfg.axis,
		Leaves:         leaves.Len(),
		SkippedByKind:  make(map[string]int),
		SkippedByShape: make(map[string]int),
	}

	tolerance := cfg.epsilon
	if !bound.IsEmpty() {
		tolerance *= max(1, bound.Diagonal().MaxComponent())
	}

	for i := 0; i < leaves.Len(); i++ {
		prim := leaves.At(i)
		gp, ok := scene.AsGeometric(prim)
		if !ok {
			kind := "nil"
			if prim != nil {
				kind = prim.Kind().String()
			}
			report.SkippedByKind[kind]++
			continue
		}
		poly, ok := scene.AsPolygon(gp.Shape())
		if !ok {
			kind := "nil"
			if gp.Shape() != nil {
				kind = gp.Shape().Kind().String()
			}
			report.SkippedByShape[kind]++
			continue
		}

		numVertices := 1
		if cfg.allVertices {
			numVertices = poly.NumVertices()
		}
		for v := 0; v < numVertices; v++ {
			res := probeVertex(bound, poly.Vertex(v), cfg.axis, tolerance)
			res.PrimitiveIndex = i
			res.Vertex = v

			switch {
			case !res.Found:
				report.NotFound++
			case !res.OnBound:
				report.OffBound++
			}
			report.Results = append(report.Results, res)
		}
	}

	cfg.logger.Infof(
		"probed %d leaves (%d rays): %d without crossing, %d off bound",
		report.Leaves, len(report.Results), report.NotFound, report.OffBound,
	)
	return report
}

func probeVertex(bound types.Bounds3, origin, axis types.Vec3, tolerance float32) ProbeResult {
	res := ProbeResult{Origin: origin}

	t0, t1, ok := bound.IntersectP(origin, axis, float32(math.Inf(1)))
	if !ok {
		return res
	}

	// A probe starting inside the bound reports its exit point.
	t := t0
	if t0 == 0 {
		t = t1
	}
	if math.IsInf(float64(t), 0) || math.IsNaN(float64(t)) {
		return res
	}

	res.T0, res.T1, res.T = t0, t1, t
	res.Crossing = origin.Add(axis.Mul(t))
	res.Distance = bound.DistanceToSurface(res.Crossing)
	res.OnBound = res.Distance <= tolerance
	res.Found = true
	return res
}
