// Package metrics provides the statistics context shared by scene queries.
//
// Counters are only ever incremented on the query path; they never gate
// correctness. Reading and resetting them is left to reporting code.
package metrics

import "sync/atomic"

// Counters tracks intersection query statistics. A zero value is ready to use
// and safe for concurrent use by multiple goroutines.
type Counters struct {
	intersectionTests atomic.Uint64
	shadowTests       atomic.Uint64
	transmittanceHops atomic.Uint64
	degenerateChains  atomic.Uint64
}

// Snapshot is a point-in-time copy of a Counters value.
type Snapshot struct {
	IntersectionTests uint64 `json:"intersection_tests"`
	ShadowTests       uint64 `json:"shadow_tests"`
	TransmittanceHops uint64 `json:"transmittance_hops"`
	DegenerateChains  uint64 `json:"degenerate_chains"`
}

// NewCounters returns an empty set of counters.
func NewCounters() *Counters {
	return &Counters{}
}

// CountIntersectionTest records a regular (nearest hit) intersection test.
func (c *Counters) CountIntersectionTest() {
	c.intersectionTests.Add(1)
}

// CountShadowTest records a shadow (existence only) intersection test.
func (c *Counters) CountShadowTest() {
	c.shadowTests.Add(1)
}

// CountTransmittanceHop records a continuation ray spawned past a
// materialless surface.
func (c *Counters) CountTransmittanceHop() {
	c.transmittanceHops.Add(1)
}

// CountDegenerateChain records a transmittance query that was abandoned
// because it crossed too many materialless surfaces.
func (c *Counters) CountDegenerateChain() {
	c.degenerateChains.Add(1)
}

// Snapshot returns the current counter values. Counters updated concurrently
// with the call may or may not be reflected.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		IntersectionTests: c.intersectionTests.Load(),
		ShadowTests:       c.shadowTests.Load(),
		TransmittanceHops: c.transmittanceHops.Load(),
		DegenerateChains:  c.degenerateChains.Load(),
	}
}

// Reset zeroes all counters and returns their values prior to the reset.
func (c *Counters) Reset() Snapshot {
	return Snapshot{
		IntersectionTests: c.intersectionTests.Swap(0),
		ShadowTests:       c.shadowTests.Swap(0),
		TransmittanceHops: c.transmittanceHops.Swap(0),
		DegenerateChains:  c.degenerateChains.Swap(0),
	}
}

// Sub returns the per-counter difference s - prev.
func (s Snapshot) Sub(prev Snapshot) Snapshot {
	return Snapshot{
		IntersectionTests: s.IntersectionTests - prev.IntersectionTests,
		ShadowTests:       s.ShadowTests - prev.ShadowTests,
		TransmittanceHops: s.TransmittanceHops - prev.TransmittanceHops,
		DegenerateChains:  s.DegenerateChains - prev.DegenerateChains,
	}
}
