package metrics

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"hrcore/pkg/domain"
)

var expvarSeq uint64

// Expvar publishes aggregate counters through the expvar package for
// deployments that do not run a Prometheus scraper.
type Expvar struct {
	name        string
	mu          sync.Mutex
	durations   map[string]float64
	results     map[string]map[string]int64
	memo        map[string]map[string]int64
	diagnostics map[string]int64
}

// ExpvarSnapshot is a read-only copy of the recorded counters.
type ExpvarSnapshot struct {
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Results     map[string]map[string]int64 `json:"results_total"`
	Memo        map[string]map[string]int64 `json:"memo_lookups_total"`
	Diagnostics map[string]int64            `json:"diagnostics_total"`
	RecordedAt  time.Time                   `json:"recorded_at"`
}

// NewExpvar publishes a recorder under name, or under a generated unique
// name when name is empty. expvar names are process-global.
func NewExpvar(name string) *Expvar {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("hrcore_metrics_%d", id)
	}
	rec := &Expvar{
		name:        name,
		durations:   make(map[string]float64),
		results:     make(map[string]map[string]int64),
		memo:        make(map[string]map[string]int64),
		diagnostics: make(map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name.
func (r *Expvar) Name() string {
	return r.name
}

// Handler serves every published expvar as JSON.
func (r *Expvar) Handler() http.Handler {
	return expvar.Handler()
}

// Snapshot copies the current counters.
func (r *Expvar) Snapshot() ExpvarSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	durations := make(map[string]float64, len(r.durations))
	for op, total := range r.durations {
		durations[op] = total
	}
	diagnostics := make(map[string]int64, len(r.diagnostics))
	for kind, n := range r.diagnostics {
		diagnostics[kind] = n
	}
	return ExpvarSnapshot{
		DurationsMS: durations,
		Results:     copyNested(r.results),
		Memo:        copyNested(r.memo),
		Diagnostics: diagnostics,
		RecordedAt:  time.Now().UTC(),
	}
}

// Observe implements Recorder.
func (r *Expvar) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	ms := float64(duration) / float64(time.Millisecond)

	r.mu.Lock()
	r.durations[operation] += ms
	increment(r.results, operation, status(success))
	r.mu.Unlock()
}

// MemoLookup implements Recorder.
func (r *Expvar) MemoLookup(kind domain.Kind, hit bool) {
	r.mu.Lock()
	increment(r.memo, string(kind), hitLabel(hit))
	r.mu.Unlock()
}

// Diagnostics implements Recorder.
func (r *Expvar) Diagnostics(diags domain.Diagnostics) {
	r.mu.Lock()
	for _, d := range diags {
		r.diagnostics[string(d.Kind)]++
	}
	r.mu.Unlock()
}

func increment(m map[string]map[string]int64, outer, inner string) {
	if _, ok := m[outer]; !ok {
		m[outer] = make(map[string]int64, 2)
	}
	m[outer][inner]++
}

func copyNested(m map[string]map[string]int64) map[string]map[string]int64 {
	out := make(map[string]map[string]int64, len(m))
	for outer, counts := range m {
		cpy := make(map[string]int64, len(counts))
		for inner, n := range counts {
			cpy[inner] = n
		}
		out[outer] = cpy
	}
	return out
}
