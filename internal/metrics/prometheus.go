package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrcore/pkg/domain"
)

const namespace = "hrcore"

// Prometheus registers its collectors on a private registry so that tests
// and multiple instances never clash on the default one.
type Prometheus struct {
	registry    *prometheus.Registry
	duration    *prometheus.HistogramVec
	results     *prometheus.CounterVec
	memo        *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
}

// NewPrometheus builds a recorder with its own registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of hrcore operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operation outcomes by status.",
		}, []string{"operation", "status"}),
		memo: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_lookups_total",
			Help:      "Memo store lookups by kind and result.",
		}, []string{"kind", "result"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_diagnostics_total",
			Help:      "Roster anomalies reported while resolving hierarchies.",
		}, []string{"kind", "severity"}),
	}
	p.registry.MustRegister(p.duration, p.results, p.memo, p.diagnostics)
	return p
}

// Registry exposes the underlying registry for gathering in tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Observe implements Recorder.
func (p *Prometheus) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	p.duration.WithLabelValues(operation).Observe(duration.Seconds())
	p.results.WithLabelValues(operation, status(success)).Inc()
}

// MemoLookup implements Recorder.
func (p *Prometheus) MemoLookup(kind domain.Kind, hit bool) {
	p.memo.WithLabelValues(string(kind), hitLabel(hit)).Inc()
}

// Diagnostics implements Recorder.
func (p *Prometheus) Diagnostics(diags domain.Diagnostics) {
	for _, d := range diags {
		p.diagnostics.WithLabelValues(string(d.Kind), string(d.Severity)).Inc()
	}
}
