// Package postgres provides a row store on Postgres through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"hrcore/internal/infra/rowstore/sqlrows"
)

const (
	defaultDriver = "pgx"
	// DefaultDSN is used when no DSN is configured.
	DefaultDSN = "postgres://localhost/hrcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

var dialect = sqlrows.Dialect{
	Name: "postgres",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS row_store (
			id BIGSERIAL PRIMARY KEY,
			tbl TEXT NOT NULL,
			cells TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS row_store_tbl_idx ON row_store(tbl, id)`,
	},
	Placeholder: sqlrows.Dollar,
}

// Store is a Postgres-backed domain.RowStore.
type Store struct {
	*sqlrows.Table
}

// NewStore opens dsn (falling back to DefaultDSN), pings it and ensures the
// row_store table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	table := sqlrows.New(db, dialect)
	if err := table.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Table: table}, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
