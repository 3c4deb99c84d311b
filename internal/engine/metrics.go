package engine

import (
	"time"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/observability"
)

// metricsRecorder forwards to observability.Metrics; a nil m records
// nothing.
type metricsRecorder struct {
	m *observability.Metrics
}

func (r *metricsRecorder) validationErrors(errs []filter.ValidationError) {
	if r.m == nil {
		return
	}
	for _, e := range errs {
		r.m.ValidationErrors.WithLabelValues(string(e.Kind)).Inc()
	}
}

func (r *metricsRecorder) dropped(model string, n int) {
	if r.m == nil || n == 0 {
		return
	}
	r.m.ClausesDropped.WithLabelValues(model).Add(float64(n))
}

func (r *metricsRecorder) compiled(n int) {
	if r.m == nil || n <= 0 {
		return
	}
	r.m.ClausesCompiled.Add(float64(n))
}

func (r *metricsRecorder) cacheHit() {
	if r.m != nil {
		r.m.PlanCacheHits.Inc()
	}
}

func (r *metricsRecorder) cacheMiss() {
	if r.m != nil {
		r.m.PlanCacheMisses.Inc()
	}
}

func (r *metricsRecorder) compileDuration(d time.Duration) {
	if r.m != nil {
		r.m.CompileDuration.Observe(d.Seconds())
	}
}

func (r *metricsRecorder) query(backend string, d time.Duration) {
	if r.m == nil {
		return
	}
	r.m.QueriesExecuted.WithLabelValues(backend).Inc()
	r.m.QueryDuration.WithLabelValues(backend).Observe(d.Seconds())
}
