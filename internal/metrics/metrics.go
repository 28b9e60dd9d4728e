// Package metrics exposes Prometheus instrumentation for graph rebuilds.
//
// A Collector is registered on a caller-supplied registerer so that
// independent graphs (and tests) never share global metric state. All
// methods are safe to call on a nil *Collector, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "acegraph"

// Union sources. Any other value is recorded as "unknown" to keep label
// cardinality bounded.
const (
	SourceExplicit   = "explicit"
	SourceCongruence = "congruence"
	SourceCompletion = "completion"
)

var knownSources = map[string]bool{
	SourceExplicit:   true,
	SourceCongruence: true,
	SourceCompletion: true,
}

func sanitizeSource(source string) string {
	if knownSources[source] {
		return source
	}
	return "unknown"
}

// Collector holds the rebuild metrics of one registry.
type Collector struct {
	// PassesTotal counts rebuild passes.
	PassesTotal prometheus.Counter

	// UnionsTotal counts merges that joined two distinct classes.
	//
	// Labels:
	//   - source: "explicit", "congruence", or "completion"
	UnionsTotal *prometheus.CounterVec

	// EquationsDerivedTotal counts equations added by AC completion.
	EquationsDerivedTotal prometheus.Counter

	// ExhaustedTotal counts rebuilds that stopped on their budget.
	//
	// Labels:
	//   - reason: "passes" or "equations"
	ExhaustedTotal *prometheus.CounterVec

	// RebuildDuration observes wall time of non-trivial rebuilds.
	RebuildDuration prometheus.Histogram
}

// New creates a Collector and registers it on reg.
//
// Panics if the metrics are already registered on reg, like promauto does.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		PassesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "passes_total",
			Help:      "Total rebuild passes",
		}),
		UnionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "unions_total",
			Help:      "Total class merges by source",
		}, []string{"source"}),
		EquationsDerivedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "completion",
			Name:      "equations_derived_total",
			Help:      "Total AC equations derived from critical pairs",
		}),
		ExhaustedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "budget_exhausted_total",
			Help:      "Total rebuilds stopped by their budget, by exhausted limit",
		}, []string{"reason"}),
		RebuildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rebuild",
			Name:      "duration_seconds",
			Help:      "Rebuild wall time",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

// ObservePass records one rebuild pass.
func (c *Collector) ObservePass() {
	if c == nil {
		return
	}
	c.PassesTotal.Inc()
}

// ObserveUnion records a merge from the given source.
func (c *Collector) ObserveUnion(source string) {
	if c == nil {
		return
	}
	c.UnionsTotal.WithLabelValues(sanitizeSource(source)).Inc()
}

// ObserveEquation records one derived equation.
func (c *Collector) ObserveEquation() {
	if c == nil {
		return
	}
	c.EquationsDerivedTotal.Inc()
}

// ObserveExhausted records a rebuild that ran out of budget.
func (c *Collector) ObserveExhausted(reason string) {
	if c == nil {
		return
	}
	c.ExhaustedTotal.WithLabelValues(reason).Inc()
}

// ObserveRebuild records the duration of one rebuild.
func (c *Collector) ObserveRebuild(d time.Duration) {
	if c == nil {
		return
	}
	c.RebuildDuration.Observe(d.Seconds())
}
