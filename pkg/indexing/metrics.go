package indexing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the engine's prometheus collectors
type Metrics struct {
	Writes        *prometheus.CounterVec
	Skipped       prometheus.Counter
	Removes       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
}

// NewMetrics creates the engine collectors and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphidx",
			Subsystem: "indexing",
			Name:      "writes",
		}, []string{"class", "kind"}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphidx",
			Subsystem: "indexing",
			Name:      "skipped_writes",
			Help:      "Entity writes that triggered no class index",
		}),
		Removes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphidx",
			Subsystem: "indexing",
			Name:      "removes",
		}, []string{"class"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "graphidx",
			Subsystem: "indexing",
			Name:      "query_duration_seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"class", "op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Writes, m.Skipped, m.Removes, m.QueryDuration)
	}
	return m
}
