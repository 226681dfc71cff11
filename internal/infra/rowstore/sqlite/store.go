// Package sqlite provides a row store on a local SQLite file using the
// pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"hrcore/internal/infra/rowstore/sqlrows"
)

// DefaultPath is used when no path is configured.
const DefaultPath = "hrcore.db"

var dialect = sqlrows.Dialect{
	Name: "sqlite",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS row_store (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tbl TEXT NOT NULL,
			cells TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS row_store_tbl_idx ON row_store(tbl, id)`,
	},
	Placeholder: sqlrows.QuestionMark,
}

// Store is a SQLite-backed domain.RowStore.
type Store struct {
	*sqlrows.Table
	path string
}

// NewStore opens (creating if needed) the database at path.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	table := sqlrows.New(db, dialect)
	if err := table.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Table: table, path: path}, nil
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
