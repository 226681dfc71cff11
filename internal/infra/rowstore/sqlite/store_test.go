package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"hrcore/pkg/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "rows.db")
	s, err := NewStore(context.Background(), path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)
	if s.Path() != path {
		t.Fatalf("expected path %s, got %s", path, s.Path())
	}
	if err := s.AppendRow(ctx, "memo", domain.Row{"A", "K", "v", ""}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendRow(ctx, "other", domain.Row{"x"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendRow(ctx, "memo", domain.Row{"B"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.UpdateCell(ctx, "memo", 1, 2, "late"); err != nil {
		t.Fatalf("update: %v", err)
	}
	rows, err := s.ReadAllRows(ctx, "memo")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "A" || len(rows[1]) != 3 || rows[1][2] != "late" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)
	if err := s.AppendRow(ctx, "roster", domain.Row{"name", "title"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = s.Close()

	reopened, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	rows, err := reopened.ReadAllRows(ctx, "roster")
	if err != nil || len(rows) != 1 || rows[0][1] != "title" {
		t.Fatalf("expected persisted row, got %#v err=%v", rows, err)
	}
}

func TestStoreUpdateOutOfRange(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if err := s.UpdateCell(ctx, "empty", 0, 0, "x"); !errors.Is(err, domain.ErrRowOutOfRange) {
		t.Fatalf("expected ErrRowOutOfRange, got %v", err)
	}
	if err := s.UpdateCell(ctx, "empty", 0, -1, "x"); err == nil {
		t.Fatalf("expected negative column to fail")
	}
}

func TestStoreEmptyRowRoundTrips(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if err := s.AppendRow(ctx, "t", nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	rows, err := s.ReadAllRows(ctx, "t")
	if err != nil || len(rows) != 1 || len(rows[0]) != 0 {
		t.Fatalf("expected one empty row, got %#v err=%v", rows, err)
	}
}
