package generation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hrcore/internal/memo"
	"hrcore/internal/metrics"
	"hrcore/pkg/domain"
)

// Options tunes a single Ensure call.
type Options struct {
	// Force regenerates and overwrites a cached artifact.
	Force bool
}

// Result is the artifact text and whether it came from the memo.
type Result struct {
	Content string `json:"content"`
	Cached  bool   `json:"cached"`
}

// Workflow checks the memo before calling the generator and stores fresh
// results after it.
type Workflow struct {
	memo    *memo.Store
	gen     Generator
	logger  *zap.Logger
	metrics metrics.Recorder
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithLogger sets the workflow logger.
func WithLogger(logger *zap.Logger) WorkflowOption {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMetrics sets the recorder for generation.ensure and generation.call.
func WithMetrics(rec metrics.Recorder) WorkflowOption {
	return func(w *Workflow) {
		if rec != nil {
			w.metrics = rec
		}
	}
}

// NewWorkflow wires a memo store and a generator.
func NewWorkflow(store *memo.Store, gen Generator, opts ...WorkflowOption) *Workflow {
	w := &Workflow{memo: store, gen: gen, logger: zap.NewNop(), metrics: metrics.Noop{}}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ensure returns the cached artifact for req or generates and stores it.
// A generator failure stores nothing. When the store rejects a freshly
// generated artifact the content is still returned alongside the error so
// the caller does not pay for it twice.
func (w *Workflow) Ensure(ctx context.Context, req Request, opts Options) (res Result, err error) {
	defer metrics.Since(ctx, w.metrics, "generation.ensure", time.Now(), &err)
	key := domain.NewMemoKey(req.SubjectKey, req.Kind)
	if key.SubjectKey == "" || key.Kind == "" {
		return Result{}, memo.ErrInvalidKey
	}
	req.SubjectKey = key.SubjectKey
	if !opts.Force {
		if content, ok := w.memo.Lookup(ctx, key.SubjectKey, key.Kind); ok {
			return Result{Content: content, Cached: true}, nil
		}
	}

	content, err := w.generate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if err := w.memo.Upsert(ctx, key.SubjectKey, key.Kind, content); err != nil {
		w.logger.Error("generated artifact not stored",
			zap.String("subject_key", key.SubjectKey),
			zap.String("kind", string(key.Kind)),
			zap.Error(err),
		)
		return Result{Content: content}, fmt.Errorf("store %s/%s: %w", key.SubjectKey, key.Kind, err)
	}
	w.logger.Info("artifact generated",
		zap.String("subject_key", key.SubjectKey),
		zap.String("kind", string(key.Kind)),
		zap.Bool("forced", opts.Force),
		zap.Int("bytes", len(content)),
	)
	return Result{Content: content}, nil
}

func (w *Workflow) generate(ctx context.Context, req Request) (content string, err error) {
	defer metrics.Since(ctx, w.metrics, "generation.call", time.Now(), &err)
	content, err = w.gen.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate %s/%s: %w", req.Kind, req.SubjectKey, err)
	}
	if content == "" {
		return "", fmt.Errorf("generate %s/%s: %w", req.Kind, req.SubjectKey, ErrEmptyCompletion)
	}
	return content, nil
}
