package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics for sieve.
// All metrics are registered with the Registerer passed to NewMetrics.
type Metrics struct {
	// ClausesCompiled counts filter clauses compiled into plans.
	ClausesCompiled prometheus.Counter

	// ClausesDropped counts clauses and search fields removed by the
	// whitelist, labeled by model.
	ClausesDropped *prometheus.CounterVec

	// ValidationErrors counts validation errors, labeled by error kind.
	ValidationErrors *prometheus.CounterVec

	// PlanCacheHits counts compile requests answered from the plan cache.
	PlanCacheHits prometheus.Counter

	// PlanCacheMisses counts compile requests that ran the pipeline.
	PlanCacheMisses prometheus.Counter

	// CompileDuration observes pipeline duration in seconds.
	CompileDuration prometheus.Histogram

	// QueriesExecuted counts executed plans, labeled by backend (sql, cel).
	QueriesExecuted *prometheus.CounterVec

	// QueryDuration observes plan execution in seconds, labeled by backend.
	QueryDuration *prometheus.HistogramVec

	// HTTPRequests counts HTTP API requests, labeled by route and status.
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with reg.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ClausesCompiled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clauses_compiled_total",
			Help:      "Total number of filter clauses compiled",
		}),
		ClausesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clauses_dropped_total",
			Help:      "Total number of clauses and search fields dropped by the whitelist",
		}, []string{"model"}),
		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Total number of filter validation errors",
		}, []string{"kind"}),
		PlanCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_cache_hits_total",
			Help:      "Total number of plan cache hits",
		}),
		PlanCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_cache_misses_total",
			Help:      "Total number of plan cache misses",
		}),
		CompileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Duration of filter compilation in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		QueriesExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_executed_total",
			Help:      "Total number of executed query plans",
		}, []string{"backend"}),
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of query plan execution in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP API requests",
		}, []string{"route", "status"}),
	}
}
