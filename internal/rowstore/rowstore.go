// Package rowstore opens the configured domain.RowStore backend. It is the
// only package that imports the concrete drivers under internal/infra/rowstore.
package rowstore

import (
	"context"
	"fmt"
	"time"

	"hrcore/internal/blob"
	"hrcore/internal/config"
	"hrcore/internal/infra/rowstore/blobtable"
	"hrcore/internal/infra/rowstore/dynamodb"
	"hrcore/internal/infra/rowstore/memory"
	"hrcore/internal/infra/rowstore/postgres"
	"hrcore/internal/infra/rowstore/sheets"
	"hrcore/internal/infra/rowstore/sqlite"
	"hrcore/internal/metrics"
	"hrcore/pkg/domain"
)

// Store is an opened backend. Close releases database handles; it is a
// no-op for stateless drivers.
type Store struct {
	domain.RowStore
	driver string
	close  func() error
}

// Driver names the backend that was opened.
func (s *Store) Driver() string { return s.driver }

// Close releases backend resources.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open selects a backend from cfg.Storage.Driver:
//
//	memory    process-local tables (tests / ephemeral)
//	sqlite    embedded sqlite file at storage.sqlite_path
//	postgres  PostgreSQL at storage.postgres_dsn
//	blob      one CSV object per table in the configured blob store
//	dynamodb  items keyed by (tbl, idx) in storage.dynamodb.table
//	sheets    one tab per table in storage.sheets.spreadsheet_id
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	driver := cfg.Storage.Driver
	switch driver {
	case config.StorageMemory:
		return &Store{RowStore: memory.NewStore(), driver: driver}, nil
	case config.StorageSQLite, "":
		s, err := sqlite.NewStore(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{RowStore: s, driver: config.StorageSQLite, close: s.Close}, nil
	case config.StoragePostgres:
		s, err := postgres.NewStore(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return &Store{RowStore: s, driver: driver, close: s.Close}, nil
	case config.StorageBlob:
		b, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return &Store{RowStore: blobtable.NewStore(b, cfg.Storage.BlobPrefix), driver: driver}, nil
	case config.StorageDynamoDB:
		s, err := dynamodb.NewStore(ctx, dynamodb.Config{
			Table:    cfg.Storage.DynamoDB.Table,
			Region:   cfg.Storage.DynamoDB.Region,
			Endpoint: cfg.Storage.DynamoDB.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return &Store{RowStore: s, driver: driver}, nil
	case config.StorageSheets:
		s, err := sheets.NewStore(ctx, sheets.Config{
			SpreadsheetID:   cfg.Storage.Sheets.SpreadsheetID,
			CredentialsFile: cfg.Storage.Sheets.CredentialsFile,
			Endpoint:        cfg.Storage.Sheets.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return &Store{RowStore: s, driver: driver}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// NewMemory returns an empty in-memory store, seeded with the given tables.
func NewMemory(tables map[string][]domain.Row) domain.RowStore {
	s := memory.NewStore()
	for name, rows := range tables {
		s.Seed(name, rows...)
	}
	return s
}

// Instrument reports the latency and outcome of every call on inner as
// rowstore.append, rowstore.read and rowstore.update.
func Instrument(inner domain.RowStore, rec metrics.Recorder) domain.RowStore {
	if rec == nil {
		return inner
	}
	return &instrumented{inner: inner, rec: rec}
}

type instrumented struct {
	inner domain.RowStore
	rec   metrics.Recorder
}

func (i *instrumented) AppendRow(ctx context.Context, table string, row domain.Row) (err error) {
	defer metrics.Since(ctx, i.rec, "rowstore.append", time.Now(), &err)
	return i.inner.AppendRow(ctx, table, row)
}

func (i *instrumented) ReadAllRows(ctx context.Context, table string) (rows []domain.Row, err error) {
	defer metrics.Since(ctx, i.rec, "rowstore.read", time.Now(), &err)
	return i.inner.ReadAllRows(ctx, table)
}

func (i *instrumented) UpdateCell(ctx context.Context, table string, row, column int, value string) (err error) {
	defer metrics.Since(ctx, i.rec, "rowstore.update", time.Now(), &err)
	return i.inner.UpdateCell(ctx, table, row, column, value)
}
