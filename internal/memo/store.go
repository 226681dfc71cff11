package memo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hrcore/internal/metrics"
	"hrcore/pkg/domain"
)

// DefaultTable is the memo table name used when none is configured.
const DefaultTable = "MEMO"

// Column positions of the memo table.
const (
	ColSubjectKey = iota
	ColKind
	ColContent
	ColUpdatedAt
)

// Header is written as the first row of an empty memo table.
var Header = domain.Row{"SUBJECT_KEY", "KIND", "CONTENT", "UPDATED_AT"}

// ErrInvalidKey reports an empty subject key or kind.
var ErrInvalidKey = errors.New("memo: subject key and kind are required")

// Store implements lookup and upsert over a domain.RowStore.
type Store struct {
	rows    domain.RowStore
	table   string
	logger  *zap.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTable overrides DefaultTable.
func WithTable(table string) Option {
	return func(s *Store) {
		if table != "" {
			s.table = table
		}
	}
}

// WithLogger sets the logger used to report masked lookup failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec metrics.Recorder) Option {
	return func(s *Store) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithClock replaces time.Now for UPDATED_AT stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a store over rows.
func New(rows domain.RowStore, opts ...Option) *Store {
	s := &Store{
		rows:    rows,
		table:   DefaultTable,
		logger:  zap.NewNop(),
		metrics: metrics.Noop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the memo table name.
func (s *Store) Table() string {
	return s.table
}

// Lookup returns the cached content for (subject, kind). Store failures are
// logged and reported as absent so that callers fall back to regenerating.
func (s *Store) Lookup(ctx context.Context, subject string, kind domain.Kind) (string, bool) {
	entry, ok, err := s.LookupEntry(ctx, subject, kind)
	if err != nil {
		s.logger.Warn("memo lookup failed; treating as absent",
			zap.String("table", s.table),
			zap.String("subject", subject),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return "", false
	}
	return entry.Content, ok
}

// LookupEntry is Lookup with transport errors surfaced. An absent entry is
// (zero, false, nil).
func (s *Store) LookupEntry(ctx context.Context, subject string, kind domain.Kind) (entry domain.MemoEntry, ok bool, err error) {
	defer metrics.Since(ctx, s.metrics, "memo.lookup", time.Now(), &err)

	key, err := validKey(subject, kind)
	if err != nil {
		return domain.MemoEntry{}, false, err
	}
	rows, err := s.read(ctx)
	if err != nil {
		return domain.MemoEntry{}, false, err
	}
	idx := findRow(rows, key)
	s.metrics.MemoLookup(kind, idx >= 0)
	if idx < 0 {
		return domain.MemoEntry{}, false, nil
	}
	entry, _ = parseEntry(rows[idx])
	return entry, true, nil
}

// Upsert overwrites the content and timestamp of the first row for
// (subject, kind), or appends a new row when none exists. The scan and the
// write are separate store calls and are not atomic.
func (s *Store) Upsert(ctx context.Context, subject string, kind domain.Kind, content string) (err error) {
	defer metrics.Since(ctx, s.metrics, "memo.upsert", time.Now(), &err)

	key, err := validKey(subject, kind)
	if err != nil {
		return err
	}
	rows, err := s.read(ctx)
	if err != nil {
		return err
	}
	stamp := s.now().UTC().Format(time.RFC3339)

	if idx := findRow(rows, key); idx >= 0 {
		if err := s.rows.UpdateCell(ctx, s.table, idx, ColContent, content); err != nil {
			return fmt.Errorf("memo: update content of %s/%s: %w", key.SubjectKey, key.Kind, err)
		}
		if err := s.rows.UpdateCell(ctx, s.table, idx, ColUpdatedAt, stamp); err != nil {
			return fmt.Errorf("memo: update timestamp of %s/%s: %w", key.SubjectKey, key.Kind, err)
		}
		return nil
	}

	if len(rows) == 0 {
		if err := s.rows.AppendRow(ctx, s.table, Header.Clone()); err != nil {
			return fmt.Errorf("memo: write header to %q: %w", s.table, err)
		}
	}
	row := domain.Row{key.SubjectKey, string(key.Kind), content, stamp}
	if err := s.rows.AppendRow(ctx, s.table, row); err != nil {
		return fmt.Errorf("memo: append %s/%s: %w", key.SubjectKey, key.Kind, err)
	}
	return nil
}

func (s *Store) read(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.rows.ReadAllRows(ctx, s.table)
	if err != nil {
		return nil, fmt.Errorf("memo: read table %q: %w", s.table, err)
	}
	return rows, nil
}

func validKey(subject string, kind domain.Kind) (domain.MemoKey, error) {
	key := domain.NewMemoKey(subject, kind)
	if key.SubjectKey == "" || key.Kind == "" {
		return domain.MemoKey{}, ErrInvalidKey
	}
	return key, nil
}

// findRow returns the index of the first row addressed by key, or -1.
func findRow(rows []domain.Row, key domain.MemoKey) int {
	for i, row := range rows {
		if !isEntryRow(i, row) {
			continue
		}
		if domain.NormalizeSubjectKey(row[ColSubjectKey]) == key.SubjectKey && domain.Kind(row[ColKind]) == key.Kind {
			return i
		}
	}
	return -1
}

// isEntryRow rejects rows too short to carry content and the header, which
// can only sit at index 0. A later row keyed ("SUBJECT_KEY", "KIND") is data.
func isEntryRow(index int, row domain.Row) bool {
	if len(row) <= ColContent {
		return false
	}
	return index != 0 || !isHeader(row)
}

func isHeader(row domain.Row) bool {
	return strings.EqualFold(strings.TrimSpace(row[ColSubjectKey]), Header[ColSubjectKey]) &&
		strings.EqualFold(strings.TrimSpace(row[ColKind]), Header[ColKind])
}

// parseEntry decodes a row. A malformed timestamp leaves UpdatedAt zero and
// reports false; the content is still usable.
func parseEntry(row domain.Row) (domain.MemoEntry, bool) {
	entry := domain.MemoEntry{
		Key:     domain.NewMemoKey(row[ColSubjectKey], domain.Kind(row[ColKind])),
		Content: row[ColContent],
	}
	raw := strings.TrimSpace(row.Cell(ColUpdatedAt))
	if raw == "" {
		return entry, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return entry, false
	}
	entry.UpdatedAt = ts.UTC()
	return entry, true
}
