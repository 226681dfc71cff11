// Package metrics records operation timings, memo hit rates and roster
// diagnostics. Components depend on the Recorder interface; the binary picks
// a Prometheus or expvar backend from configuration.
package metrics

import (
	"context"
	"time"

	"hrcore/pkg/domain"
)

// Recorder receives operation outcomes from the memo store, the generation
// workflow and the org chart handlers.
type Recorder interface {
	// Observe records one operation outcome and its latency.
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
	// MemoLookup counts a cache hit or miss for kind.
	MemoLookup(kind domain.Kind, hit bool)
	// Diagnostics counts anomalies reported by a resolve or normalize pass.
	Diagnostics(diags domain.Diagnostics)
}

// Noop discards everything.
type Noop struct{}

// Observe implements Recorder.
func (Noop) Observe(context.Context, string, bool, time.Duration) {}

// MemoLookup implements Recorder.
func (Noop) MemoLookup(domain.Kind, bool) {}

// Diagnostics implements Recorder.
func (Noop) Diagnostics(domain.Diagnostics) {}

// Since is a helper for deferred observations:
//
//	defer metrics.Since(ctx, rec, "memo.upsert", time.Now(), &err)
func Since(ctx context.Context, rec Recorder, operation string, started time.Time, errp *error) {
	if rec == nil {
		return
	}
	success := errp == nil || *errp == nil
	rec.Observe(ctx, operation, success, time.Since(started))
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
