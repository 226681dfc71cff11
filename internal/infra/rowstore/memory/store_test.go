package memory

import (
	"context"
	"errors"
	"testing"

	"hrcore/pkg/domain"
)

func TestStoreAppendReadUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	if rows, err := s.ReadAllRows(ctx, "missing"); err != nil || len(rows) != 0 {
		t.Fatalf("expected empty table, got %v %v", rows, err)
	}
	if err := s.AppendRow(ctx, "t", domain.Row{"a", "b"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendRow(ctx, "t", domain.Row{"c"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.UpdateCell(ctx, "t", 1, 3, "z"); err != nil {
		t.Fatalf("update: %v", err)
	}
	rows, err := s.ReadAllRows(ctx, "t")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 || len(rows[1]) != 4 || rows[1][3] != "z" || rows[1][0] != "c" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestStoreCopiesRows(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	in := domain.Row{"a"}
	_ = s.AppendRow(ctx, "t", in)
	in[0] = "mutated"
	rows, _ := s.ReadAllRows(ctx, "t")
	rows[0][0] = "also mutated"
	again, _ := s.ReadAllRows(ctx, "t")
	if again[0][0] != "a" {
		t.Fatalf("expected store to be isolated from callers, got %q", again[0][0])
	}
}

func TestStoreUpdateOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Seed("t", domain.Row{"a"})
	if err := s.UpdateCell(ctx, "t", 1, 0, "x"); !errors.Is(err, domain.ErrRowOutOfRange) {
		t.Fatalf("expected ErrRowOutOfRange, got %v", err)
	}
	if err := s.UpdateCell(ctx, "t", 0, -1, "x"); err == nil {
		t.Fatalf("expected negative column to fail")
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore()
	if err := s.AppendRow(ctx, "t", domain.Row{"a"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := s.ReadAllRows(ctx, "t"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
