// Package service composes the roster loader, the hierarchy resolver, the
// memo store and the generation workflow into the operations exposed by the
// HTTP adapter and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hrcore/internal/generation"
	"hrcore/internal/hierarchy"
	"hrcore/internal/memo"
	"hrcore/internal/metrics"
	"hrcore/internal/roster"
	"hrcore/pkg/domain"
)

// DefaultRosterTable is the roster table name used when none is configured.
const DefaultRosterTable = "ROSTER"

var (
	// ErrEmployeeNotFound reports an employee id absent from the roster.
	ErrEmployeeNotFound = errors.New("service: employee not found")
	// ErrGenerationDisabled reports a generate call without a configured generator.
	ErrGenerationDisabled = errors.New("service: generation is not configured")
)

// Service exposes the read and generate operations over one row store.
type Service struct {
	rows        domain.RowStore
	memo        *memo.Store
	normalizer  *roster.Normalizer
	rosterTable string
	workflow    *generation.Workflow
	metrics     metrics.Recorder
	logger      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithNormalizer replaces the default roster normalizer.
func WithNormalizer(n *roster.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithRosterTable overrides DefaultRosterTable.
func WithRosterTable(table string) Option {
	return func(s *Service) {
		if table != "" {
			s.rosterTable = table
		}
	}
}

// WithWorkflow enables Generate.
func WithWorkflow(w *generation.Workflow) Option {
	return func(s *Service) { s.workflow = w }
}

// WithMetrics sets the recorder.
func WithMetrics(rec metrics.Recorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a service reading the roster from rows and caching
// artifacts in memoStore.
func New(rows domain.RowStore, memoStore *memo.Store, opts ...Option) *Service {
	s := &Service{
		rows:        rows,
		memo:        memoStore,
		normalizer:  roster.NewNormalizer(),
		rosterTable: DefaultRosterTable,
		metrics:     metrics.Noop{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Memo returns the underlying memo store.
func (s *Service) Memo() *memo.Store { return s.memo }

// RosterTable returns the configured roster table name.
func (s *Service) RosterTable() string { return s.rosterTable }

// Roster loads and normalizes the roster table. An empty table yields no
// records rather than an error.
func (s *Service) Roster(ctx context.Context) (res roster.Result, err error) {
	defer metrics.Since(ctx, s.metrics, "roster.load", time.Now(), &err)
	res, err = s.normalizer.Load(ctx, s.rows, s.rosterTable)
	if errors.Is(err, roster.ErrEmptyTable) {
		return roster.Result{}, nil
	}
	return res, err
}

// OrgChart resolves the per-employee hierarchy. Roster diagnostics precede
// resolver diagnostics in the returned forest.
func (s *Service) OrgChart(ctx context.Context) (domain.Forest, error) {
	res, err := s.Roster(ctx)
	if err != nil {
		return domain.Forest{}, err
	}
	forest := hierarchy.Resolve(res.Records)
	forest.Diagnostics = append(res.Diagnostics, forest.Diagnostics...)
	s.report(forest.Diagnostics)
	return forest, nil
}

// RoleChart resolves the per-role hierarchy.
func (s *Service) RoleChart(ctx context.Context) (domain.RoleForest, error) {
	res, err := s.Roster(ctx)
	if err != nil {
		return domain.RoleForest{}, err
	}
	forest := hierarchy.AggregateByRole(res.Records)
	forest.Diagnostics = append(res.Diagnostics, forest.Diagnostics...)
	s.report(forest.Diagnostics)
	return forest, nil
}

// Coverage lists, per kind, the subjects of the roster that have no memo
// entry yet.
func (s *Service) Coverage(ctx context.Context, kinds ...domain.Kind) ([]memo.Gap, error) {
	res, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.memo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return memo.Coverage(snap, res.Records, kinds...), nil
}

// Generate ensures the artifact of kind for the employee with employeeID.
// Role scoped kinds are keyed by the employee's title.
func (s *Service) Generate(ctx context.Context, kind domain.Kind, employeeID string, opts generation.Options) (generation.Result, error) {
	if s.workflow == nil {
		return generation.Result{}, ErrGenerationDisabled
	}
	res, err := s.Roster(ctx)
	if err != nil {
		return generation.Result{}, err
	}
	for _, rec := range res.Records {
		if rec.ID == employeeID {
			return s.workflow.Ensure(ctx, generation.RequestFor(kind, rec), opts)
		}
	}
	return generation.Result{}, fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
}

func (s *Service) report(diags domain.Diagnostics) {
	s.metrics.Diagnostics(diags)
	for _, d := range diags {
		s.logger.Debug("roster diagnostic",
			zap.String("kind", string(d.Kind)),
			zap.String("subject_id", d.SubjectID),
			zap.String("related", d.Related),
		)
	}
	if len(diags) > 0 {
		s.logger.Info("roster resolved with diagnostics", zap.Int("count", len(diags)))
	}
}
