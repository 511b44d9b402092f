// Package metrics exposes prometheus instrumentation for a node: write
// latency and outcomes on the leader, apply outcomes on followers, and
// the store key count.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Write outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeQuorumFailed = "quorum_failed"
	OutcomeRejected     = "rejected"
)

// Metrics holds the node's prometheus collectors. Each node instance gets
// its own registry so several nodes can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	WriteLatency  prometheus.Histogram
	Writes        *prometheus.CounterVec
	Confirmations prometheus.Counter
	Applies       *prometheus.CounterVec
}

// New creates a metrics set registered on a fresh registry. keys reports
// the current store key count for the gauge.
func New(role string, keys func() int) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	constLabels := prometheus.Labels{"role": role}

	m := &Metrics{
		registry: reg,
		WriteLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "kv_write_duration_seconds",
			Help:        "Latency of POST /set including replication wait",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		Writes: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "kv_writes_total",
			Help:        "Write requests by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		Confirmations: factory.NewCounter(prometheus.CounterOpts{
			Name:        "kv_replication_confirmations_total",
			Help:        "Follower confirmations counted toward quorum",
			ConstLabels: constLabels,
		}),
		Applies: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "kv_applies_total",
			Help:        "Pushed updates by result (applied or stale)",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "kv_store_keys",
		Help:        "Number of keys in the store",
		ConstLabels: constLabels,
	}, func() float64 { return float64(keys()) })

	return m
}

// Handler serves the registry for GET /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
