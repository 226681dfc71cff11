package memo

import (
	"context"
	"time"

	"hrcore/internal/metrics"
	"hrcore/pkg/domain"
)

// Snapshot is an in-memory view of the memo table taken with a single
// read. It answers lookups with the same first-match rule as Store.
type Snapshot struct {
	entries map[domain.MemoKey]domain.MemoEntry
	order   []domain.MemoKey
	rows    int
}

// Snapshot reads the memo table once.
func (s *Store) Snapshot(ctx context.Context) (snap *Snapshot, err error) {
	defer metrics.Since(ctx, s.metrics, "memo.snapshot", time.Now(), &err)

	rows, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return newSnapshot(rows), nil
}

func newSnapshot(rows []domain.Row) *Snapshot {
	snap := &Snapshot{entries: make(map[domain.MemoKey]domain.MemoEntry, len(rows))}
	for i, row := range rows {
		if !isEntryRow(i, row) {
			continue
		}
		snap.rows++
		entry, _ := parseEntry(row)
		if entry.Key.SubjectKey == "" {
			continue
		}
		if _, seen := snap.entries[entry.Key]; seen {
			continue
		}
		snap.entries[entry.Key] = entry
		snap.order = append(snap.order, entry.Key)
	}
	return snap
}

// Lookup returns the content cached for (subject, kind).
func (s *Snapshot) Lookup(subject string, kind domain.Kind) (string, bool) {
	entry, ok := s.Entry(subject, kind)
	return entry.Content, ok
}

// Entry returns the full entry cached for (subject, kind).
func (s *Snapshot) Entry(subject string, kind domain.Kind) (domain.MemoEntry, bool) {
	entry, ok := s.entries[domain.NewMemoKey(subject, kind)]
	return entry, ok
}

// Entries returns the distinct entries in table order.
func (s *Snapshot) Entries() []domain.MemoEntry {
	out := make([]domain.MemoEntry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.entries[key])
	}
	return out
}

// Len returns the number of distinct keys.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Duplicates returns how many entry rows were masked by an earlier row
// with the same key.
func (s *Snapshot) Duplicates() int {
	return s.rows - len(s.order)
}
