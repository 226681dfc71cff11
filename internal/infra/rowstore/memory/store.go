// Package memory provides a process-local row store for tests and
// ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"hrcore/pkg/domain"
)

var _ domain.RowStore = (*Store)(nil)

// Store keeps tables in a mutex-guarded map. Rows are copied on the way in
// and out so callers never share backing arrays with the store.
type Store struct {
	mu     sync.RWMutex
	tables map[string][]domain.Row
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{tables: make(map[string][]domain.Row)}
}

// Seed replaces table with rows. It is meant for fixtures.
func (s *Store) Seed(table string, rows ...domain.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := make([]domain.Row, len(rows))
	for i, row := range rows {
		cloned[i] = row.Clone()
	}
	s.tables[table] = cloned
}

// AppendRow implements domain.RowStore.
func (s *Store) AppendRow(ctx context.Context, table string, row domain.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], row.Clone())
	return nil
}

// ReadAllRows implements domain.RowStore. An unknown table reads as empty.
func (s *Store) ReadAllRows(ctx context.Context, table string) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.tables[table]
	out := make([]domain.Row, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out, nil
}

// UpdateCell implements domain.RowStore.
func (s *Store) UpdateCell(ctx context.Context, table string, row, column int, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if column < 0 {
		return fmt.Errorf("memory: negative column %d", column)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.tables[table]
	if row < 0 || row >= len(rows) {
		return fmt.Errorf("memory: table %q row %d: %w", table, row, domain.ErrRowOutOfRange)
	}
	rows[row] = domain.SetCell(rows[row], column, value)
	return nil
}
