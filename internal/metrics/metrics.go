// Package metrics exposes Prometheus instrumentation for the scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	registry *prometheus.Registry

	scoreDuration  prometheus.Histogram
	scoreRequests  *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	fallbacksUsed  *prometheus.CounterVec
	ingestUpserts  prometheus.Counter
	ingestFailures prometheus.Counter
}

func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Manager{
		registry: reg,

		scoreDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "talentmatch",
			Subsystem: "engine",
			Name:      "score_duration_seconds",
			Help:      "Wall time of one compatibility score computation.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		scoreRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talentmatch",
			Subsystem: "engine",
			Name:      "score_requests_total",
			Help:      "Score requests by outcome.",
		}, []string{"outcome"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "talentmatch",
			Subsystem: "engine",
			Name:      "cache_hits_total",
			Help:      "Score requests served from the result cache.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "talentmatch",
			Subsystem: "engine",
			Name:      "cache_misses_total",
			Help:      "Score requests that required a fresh computation.",
		}),
		fallbacksUsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talentmatch",
			Subsystem: "engine",
			Name:      "criterion_fallbacks_total",
			Help:      "Criterion evaluations that fell back to a degraded score.",
		}, []string{"criterion"}),
		ingestUpserts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "talentmatch",
			Subsystem: "ingest",
			Name:      "opportunities_upserted_total",
			Help:      "Opportunity postings written by the ingest pipeline.",
		}),
		ingestFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "talentmatch",
			Subsystem: "ingest",
			Name:      "opportunities_failed_total",
			Help:      "Opportunity postings the ingest pipeline could not write.",
		}),
	}
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Manager) ObserveScoreDuration(seconds float64) {
	if m == nil {
		return
	}
	m.scoreDuration.Observe(seconds)
}

func (m *Manager) ScoreRequest(outcome string) {
	if m == nil {
		return
	}
	m.scoreRequests.WithLabelValues(outcome).Inc()
}

func (m *Manager) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Manager) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Manager) FallbackUsed(criterion string) {
	if m == nil {
		return
	}
	m.fallbacksUsed.WithLabelValues(criterion).Inc()
}

func (m *Manager) IngestUpserted() {
	if m == nil {
		return
	}
	m.ingestUpserts.Inc()
}

func (m *Manager) IngestFailed() {
	if m == nil {
		return
	}
	m.ingestFailures.Inc()
}
