package testutil

import (
	"context"
	"errors"
	"testing"
)

func TestStubSelectFiltersByPredicate(t *testing.T) {
	db, conn := NewStubDB()
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "INSERT INTO items(kind, body) VALUES($1, $2)", "a", "one"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO items(kind, body) VALUES($1, $2)", "b", "two"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	rows, err := db.QueryContext(ctx, "SELECT id, body FROM items WHERE kind = $1 ORDER BY id", "b")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	defer func() { _ = rows.Close() }()
	var got []string
	for rows.Next() {
		var id int64
		var body string
		if err := rows.Scan(&id, &body); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if id != 2 {
			t.Fatalf("expected serial id 2, got %d", id)
		}
		got = append(got, body)
	}
	if len(got) != 1 || got[0] != "two" {
		t.Fatalf("unexpected rows %v", got)
	}
	if len(conn.Execs) != 2 {
		t.Fatalf("expected execs to be recorded, got %v", conn.Execs)
	}
}

func TestStubUpdateByID(t *testing.T) {
	db, conn := NewStubDB()
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "INSERT INTO items(body) VALUES($1)", "old"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	res, err := db.ExecContext(ctx, "UPDATE items SET body = $1 WHERE id = $2", "new", int64(1))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Fatalf("expected one row affected, got %d", n)
	}
	if got := conn.Rows("items")[0]["body"]; got != "new" {
		t.Fatalf("expected updated body, got %v", got)
	}
}

func TestStubRowsErrAndParseFailures(t *testing.T) {
	db, conn := NewStubDB()
	ctx := context.Background()
	_, _ = db.ExecContext(ctx, "INSERT INTO items(body) VALUES($1)", "x")
	conn.RowsErr = errors.New("iteration failed")
	rows, err := db.QueryContext(ctx, "SELECT body FROM items")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	for rows.Next() {
	}
	if !errors.Is(rows.Err(), conn.RowsErr) {
		t.Fatalf("expected rows error, got %v", rows.Err())
	}
	_ = rows.Close()

	if _, err := db.ExecContext(ctx, "UPDATE items SET"); err == nil {
		t.Fatalf("expected malformed update to fail")
	}
	if _, err := db.QueryContext(ctx, "SHOW tables"); err == nil {
		t.Fatalf("expected unsupported query to fail")
	}
}
