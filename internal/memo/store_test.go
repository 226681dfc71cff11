package memo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"hrcore/internal/infra/rowstore/memory"
	"hrcore/pkg/domain"
)

var errUnavailable = errors.New("row store unavailable")

// flakyStore wraps a memory store and fails selected operations.
type flakyStore struct {
	*memory.Store
	failRead   bool
	failAppend bool
	failUpdate bool
	appends    int
	updates    int
}

func (f *flakyStore) ReadAllRows(ctx context.Context, table string) ([]domain.Row, error) {
	if f.failRead {
		return nil, errUnavailable
	}
	return f.Store.ReadAllRows(ctx, table)
}

func (f *flakyStore) AppendRow(ctx context.Context, table string, row domain.Row) error {
	f.appends++
	if f.failAppend {
		return errUnavailable
	}
	return f.Store.AppendRow(ctx, table, row)
}

func (f *flakyStore) UpdateCell(ctx context.Context, table string, row, column int, value string) error {
	f.updates++
	if f.failUpdate {
		return errUnavailable
	}
	return f.Store.UpdateCell(ctx, table, row, column, value)
}

func newFlaky() *flakyStore {
	return &flakyStore{Store: memory.NewStore()}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestUpsertThenLookupRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewStore())
	if err := store.Upsert(ctx, "ENG_MANAGER", domain.KindRoleProfile, "<html>profile</html>"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, ok := store.Lookup(ctx, "eng_manager", domain.KindRoleProfile)
	if !ok || got != "<html>profile</html>" {
		t.Fatalf("expected stored content, got %q ok=%v", got, ok)
	}
}

func TestLookupAbsentOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewStore())
	got, ok := store.Lookup(ctx, "GHOST", domain.KindRoleProfile)
	if ok || got != "" {
		t.Fatalf("expected absent, got %q ok=%v", got, ok)
	}
	_, ok, err := store.LookupEntry(ctx, "GHOST", domain.KindRoleProfile)
	if err != nil || ok {
		t.Fatalf("expected absent without error, got ok=%v err=%v", ok, err)
	}
}

func TestSubjectKeyNormalization(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewStore())
	if err := store.Upsert(ctx, "ANALYST", "X", "v"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	a, okA := store.Lookup(ctx, "analyst", "X")
	b, okB := store.Lookup(ctx, " Analyst ", "X")
	if !okA || !okB || a != b || a != "v" {
		t.Fatalf("expected identical results, got %q/%v and %q/%v", a, okA, b, okB)
	}
}

func TestKindIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewStore())
	if err := store.Upsert(ctx, "analyst", domain.KindRoleProfile, "v"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, ok := store.Lookup(ctx, "analyst", "role_profile"); ok {
		t.Fatalf("expected kind comparison to be verbatim")
	}
}

func TestUpsertOverwritesInPlace(t *testing.T) {
	ctx := context.Background()
	rows := memory.NewStore()
	first := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	store := New(rows, WithClock(fixedClock(first)))
	if err := store.Upsert(ctx, "analyst", domain.KindEvaluationForm, "v1"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second := first.Add(time.Hour)
	store = New(rows, WithClock(fixedClock(second)))
	if err := store.Upsert(ctx, " Analyst", domain.KindEvaluationForm, "v2"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	all, _ := rows.ReadAllRows(ctx, DefaultTable)
	if len(all) != 2 {
		t.Fatalf("expected header plus one entry, got %d rows: %#v", len(all), all)
	}
	if all[0][ColSubjectKey] != Header[ColSubjectKey] {
		t.Fatalf("expected header row first, got %#v", all[0])
	}
	if all[1][ColSubjectKey] != "ANALYST" {
		t.Fatalf("expected normalized subject key to be stored, got %q", all[1][ColSubjectKey])
	}
	entry, ok, err := store.LookupEntry(ctx, "analyst", domain.KindEvaluationForm)
	if err != nil || !ok {
		t.Fatalf("lookup entry: ok=%v err=%v", ok, err)
	}
	if entry.Content != "v2" || !entry.UpdatedAt.Equal(second) {
		t.Fatalf("expected overwritten entry, got %+v", entry)
	}
}

func TestLookupMasksDuplicatesByFirstMatch(t *testing.T) {
	ctx := context.Background()
	rows := memory.NewStore()
	rows.Seed(DefaultTable,
		Header.Clone(),
		domain.Row{"analyst", "ROLE_PROFILE", "first", "2024-01-01T00:00:00Z"},
		domain.Row{"ANALYST", "ROLE_PROFILE", "second", "2024-02-01T00:00:00Z"},
	)
	store := New(rows)
	for i := 0; i < 3; i++ {
		got, ok := store.Lookup(ctx, "Analyst", domain.KindRoleProfile)
		if !ok || got != "first" {
			t.Fatalf("expected first match, got %q ok=%v", got, ok)
		}
	}
	if err := store.Upsert(ctx, "analyst", domain.KindRoleProfile, "updated"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	all, _ := rows.ReadAllRows(ctx, DefaultTable)
	if all[1][ColContent] != "updated" || all[2][ColContent] != "second" {
		t.Fatalf("expected only the first duplicate to be updated, got %#v", all)
	}
}

func TestShortAndMalformedRowsAreIgnored(t *testing.T) {
	ctx := context.Background()
	rows := memory.NewStore()
	rows.Seed(DefaultTable,
		domain.Row{"ANALYST", "ROLE_PROFILE"},
		domain.Row{"ANALYST", "ROLE_PROFILE", "content", "not a time"},
	)
	store := New(rows)
	entry, ok, err := store.LookupEntry(ctx, "analyst", domain.KindRoleProfile)
	if err != nil || !ok {
		t.Fatalf("expected entry, ok=%v err=%v", ok, err)
	}
	if entry.Content != "content" || !entry.UpdatedAt.IsZero() {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if err := store.Upsert(ctx, "analyst", domain.KindRoleProfile, "next"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	all, _ := rows.ReadAllRows(ctx, DefaultTable)
	if len(all) != 2 || all[1][ColContent] != "next" {
		t.Fatalf("expected in-place update of row 1, got %#v", all)
	}
}

func TestHeaderLookalikeKeyRoundTrips(t *testing.T) {
	ctx := context.Background()
	rows := memory.NewStore()
	store := New(rows)
	for _, content := range []string{"v1", "v2"} {
		if err := store.Upsert(ctx, "subject_key", "KIND", content); err != nil {
			t.Fatalf("upsert %s: %v", content, err)
		}
	}
	got, ok := store.Lookup(ctx, "SUBJECT_KEY", "KIND")
	if !ok || got != "v2" {
		t.Fatalf("expected overwritten content v2, got %q ok=%v", got, ok)
	}
	all, _ := rows.ReadAllRows(ctx, DefaultTable)
	if len(all) != 2 {
		t.Fatalf("expected header plus one entry, got %d rows: %#v", len(all), all)
	}
	snap, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got, ok := snap.Lookup("subject_key", "KIND"); !ok || got != "v2" {
		t.Fatalf("snapshot lost the entry: %q ok=%v", got, ok)
	}
}

func TestInvalidKey(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewStore())
	if err := store.Upsert(ctx, "  ", domain.KindRoleProfile, "v"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, _, err := store.LookupEntry(ctx, "analyst", ""); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestLookupMasksStoreFailureAndLogs(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	rows := newFlaky()
	rows.failRead = true
	store := New(rows, WithLogger(zap.New(core)))

	if got, ok := store.Lookup(ctx, "analyst", domain.KindRoleProfile); ok || got != "" {
		t.Fatalf("expected failure to read as absent, got %q ok=%v", got, ok)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
	if _, _, err := store.LookupEntry(ctx, "analyst", domain.KindRoleProfile); !errors.Is(err, errUnavailable) {
		t.Fatalf("expected LookupEntry to surface the failure, got %v", err)
	}
}

func TestUpsertPropagatesFailuresWithoutRetry(t *testing.T) {
	ctx := context.Background()

	rows := newFlaky()
	rows.failRead = true
	if err := New(rows).Upsert(ctx, "a", "K", "v"); !errors.Is(err, errUnavailable) {
		t.Fatalf("expected read failure, got %v", err)
	}
	if rows.appends != 0 {
		t.Fatalf("expected no write after failed scan")
	}

	rows = newFlaky()
	rows.failAppend = true
	if err := New(rows).Upsert(ctx, "a", "K", "v"); !errors.Is(err, errUnavailable) {
		t.Fatalf("expected append failure, got %v", err)
	}
	if rows.appends != 1 {
		t.Fatalf("expected a single append attempt, got %d", rows.appends)
	}

	rows = newFlaky()
	rows.Seed(DefaultTable, domain.Row{"A", "K", "old", ""})
	rows.failUpdate = true
	if err := New(rows).Upsert(ctx, "a", "K", "v"); !errors.Is(err, errUnavailable) {
		t.Fatalf("expected update failure, got %v", err)
	}
	if rows.updates != 1 {
		t.Fatalf("expected a single update attempt, got %d", rows.updates)
	}
}

func TestWithTableAndDefaults(t *testing.T) {
	ctx := context.Background()
	rows := memory.NewStore()
	store := New(rows, WithTable("CACHE"), WithTable(""), WithLogger(nil), WithMetrics(nil), WithClock(nil))
	if store.Table() != "CACHE" {
		t.Fatalf("expected custom table, got %q", store.Table())
	}
	if err := store.Upsert(ctx, "a", "K", "v"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if all, _ := rows.ReadAllRows(ctx, "CACHE"); len(all) != 2 {
		t.Fatalf("expected rows in custom table, got %#v", all)
	}
}
