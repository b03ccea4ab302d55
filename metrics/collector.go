package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace    = "lumen"
	subsystem    = "intersect"
	sceneIDLabel = "scene_id"
)

// Collector exports a Counters value as Prometheus counters.
type Collector struct {
	counters *Counters

	intersectionTests *prometheus.Desc
	shadowTests       *prometheus.Desc
	transmittanceHops *prometheus.Desc
	degenerateChains  *prometheus.Desc
}

// NewCollector creates a collector for the supplied counters. All exported
// series carry a scene_id label with the given value.
func NewCollector(counters *Counters, sceneID string) *Collector {
	labels := prometheus.Labels{sceneIDLabel: sceneID}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, nil, labels)
	}

	return &Collector{
		counters:          counters,
		intersectionTests: desc("regular_tests_total", "Regular ray intersection tests."),
		shadowTests:       desc("shadow_tests_total", "Shadow ray intersection tests."),
		transmittanceHops: desc("transmittance_hops_total", "Continuation rays spawned past materialless surfaces."),
		degenerateChains:  desc("degenerate_chains_total", "Transmittance queries abandoned after too many materialless surfaces."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.intersectionTests
	ch <- c.shadowTests
	ch <- c.transmittanceHops
	ch <- c.degenerateChains
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.counters.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.intersectionTests, prometheus.CounterValue, float64(snap.IntersectionTests))
	ch <- prometheus.MustNewConstMetric(c.shadowTests, prometheus.CounterValue, float64(snap.ShadowTests))
	ch <- prometheus.MustNewConstMetric(c.transmittanceHops, prometheus.CounterValue, float64(snap.TransmittanceHops))
	ch <- prometheus.MustNewConstMetric(c.degenerateChains, prometheus.CounterValue, float64(snap.DegenerateChains))
}
