// Package sqlrows stores rows of every logical table in a single SQL table
// keyed by an auto-incrementing id. Row order is id order. The sqlite and
// postgres drivers differ only in their Dialect.
package sqlrows

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"hrcore/pkg/domain"
)

// Dialect carries the driver specific SQL.
type Dialect struct {
	// Name prefixes error messages.
	Name string
	// Schema statements run by Migrate, in order.
	Schema []string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
}

// QuestionMark is the sqlite placeholder style.
func QuestionMark(int) string { return "?" }

// Dollar is the postgres placeholder style.
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// Table implements domain.RowStore on a *sql.DB.
type Table struct {
	db      *sql.DB
	dialect Dialect
	// mu serializes UpdateCell's read-modify-write within this process.
	mu sync.Mutex

	insertSQL string
	selectSQL string
	updateSQL string
}

var _ domain.RowStore = (*Table)(nil)

// New wraps db. Call Migrate before use.
func New(db *sql.DB, dialect Dialect) *Table {
	p := dialect.Placeholder
	return &Table{
		db:        db,
		dialect:   dialect,
		insertSQL: fmt.Sprintf("INSERT INTO row_store(tbl, cells) VALUES(%s, %s)", p(1), p(2)),
		selectSQL: fmt.Sprintf("SELECT id, cells FROM row_store WHERE tbl = %s ORDER BY id", p(1)),
		updateSQL: fmt.Sprintf("UPDATE row_store SET cells = %s WHERE id = %s", p(1), p(2)),
	}
}

// Migrate creates the backing table when missing.
func (t *Table) Migrate(ctx context.Context) error {
	for _, stmt := range t.dialect.Schema {
		if _, err := t.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: apply schema: %w", t.dialect.Name, err)
		}
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (t *Table) DB() *sql.DB { return t.db }

// Close closes the database handle.
func (t *Table) Close() error { return t.db.Close() }

// AppendRow implements domain.RowStore.
func (t *Table) AppendRow(ctx context.Context, table string, row domain.Row) error {
	cells, err := encodeCells(row)
	if err != nil {
		return err
	}
	if _, err := t.db.ExecContext(ctx, t.insertSQL, table, cells); err != nil {
		return fmt.Errorf("%s: append to %q: %w", t.dialect.Name, table, err)
	}
	return nil
}

// ReadAllRows implements domain.RowStore.
func (t *Table) ReadAllRows(ctx context.Context, table string) ([]domain.Row, error) {
	_, rows, err := t.query(ctx, t.db, table)
	return rows, err
}

// UpdateCell implements domain.RowStore. The id lookup and the write run in
// one transaction.
func (t *Table) UpdateCell(ctx context.Context, table string, row, column int, value string) (retErr error) {
	if column < 0 {
		return fmt.Errorf("%s: negative column %d", t.dialect.Name, column)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", t.dialect.Name, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ids, rows, err := t.query(ctx, tx, table)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(rows) {
		return fmt.Errorf("%s: table %q row %d: %w", t.dialect.Name, table, row, domain.ErrRowOutOfRange)
	}
	cells, err := encodeCells(domain.SetCell(rows[row], column, value))
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, t.updateSQL, cells, ids[row]); err != nil {
		return fmt.Errorf("%s: update %q row %d: %w", t.dialect.Name, table, row, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", t.dialect.Name, err)
	}
	committed = true
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (t *Table) query(ctx context.Context, q queryer, table string) ([]int64, []domain.Row, error) {
	rs, err := q.QueryContext(ctx, t.selectSQL, table)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: select %q: %w", t.dialect.Name, table, err)
	}
	defer func() { _ = rs.Close() }()

	var (
		ids  []int64
		rows []domain.Row
	)
	for rs.Next() {
		var (
			id  int64
			raw string
		)
		if err := rs.Scan(&id, &raw); err != nil {
			return nil, nil, fmt.Errorf("%s: scan %q: %w", t.dialect.Name, table, err)
		}
		var row domain.Row
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, nil, fmt.Errorf("%s: decode %q row %d: %w", t.dialect.Name, table, id, err)
		}
		ids = append(ids, id)
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: iterate %q: %w", t.dialect.Name, table, err)
	}
	return ids, rows, nil
}

func encodeCells(row domain.Row) (string, error) {
	if row == nil {
		row = domain.Row{}
	}
	data, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("encode row: %w", err)
	}
	return string(data), nil
}
