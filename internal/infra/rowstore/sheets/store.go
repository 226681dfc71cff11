// Package sheets stores each logical table as a tab of one Google Sheets
// spreadsheet. Row indexes are sheet rows minus one.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"hrcore/pkg/domain"
)

const (
	valueInputRaw = "RAW"
	insertRows    = "INSERT_ROWS"
)

// Config holds construction parameters.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	// Endpoint overrides the API base URL.
	Endpoint string
}

// Store implements domain.RowStore on the Sheets values API.
type Store struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
}

var _ domain.RowStore = (*Store)(nil)

// NewStore builds a Sheets client. Extra options are appended after the
// ones derived from cfg.
func NewStore(ctx context.Context, cfg Config, extra ...option.ClientOption) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("sheets spreadsheet id required")
	}
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	opts = append(opts, extra...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: new service: %w", err)
	}
	return &Store{values: sheets.NewSpreadsheetsValuesService(svc), spreadsheetID: cfg.SpreadsheetID}, nil
}

// AppendRow implements domain.RowStore. Sheets ignores fully blank rows on
// append, so such a row does not occupy an index.
func (s *Store) AppendRow(ctx context.Context, table string, row domain.Row) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	_, err := s.values.Append(s.spreadsheetID, sheetRange(table), &sheets.ValueRange{Values: [][]interface{}{cells}}).
		ValueInputOption(valueInputRaw).
		InsertDataOption(insertRows).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append %s: %w", table, err)
	}
	return nil
}

// ReadAllRows implements domain.RowStore. Trailing blank cells and rows are
// not returned by the API.
func (s *Store) ReadAllRows(ctx context.Context, table string) ([]domain.Row, error) {
	resp, err := s.values.Get(s.spreadsheetID, sheetRange(table)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s: %w", table, err)
	}
	rows := make([]domain.Row, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make(domain.Row, len(values))
		for i, v := range values {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateCell implements domain.RowStore. The row must exist in the current
// read; the API itself would accept writes anywhere on the grid.
func (s *Store) UpdateCell(ctx context.Context, table string, row, column int, value string) error {
	if column < 0 {
		return fmt.Errorf("sheets: negative column %d", column)
	}
	rows, err := s.ReadAllRows(ctx, table)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(rows) {
		return fmt.Errorf("sheets: table %q row %d: %w", table, row, domain.ErrRowOutOfRange)
	}
	cell := CellRange(table, row, column)
	_, err = s.values.Update(s.spreadsheetID, cell, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: update %s: %w", cell, err)
	}
	return nil
}

// CellRange renders the A1 reference of a zero-based (row, column) on the
// table's tab.
func CellRange(table string, row, column int) string {
	return sheetRange(table) + "!" + ColumnLetters(column) + strconv.Itoa(row+1)
}

// ColumnLetters converts a zero-based column index to A1 letters (0 → A,
// 26 → AA).
func ColumnLetters(column int) string {
	var b []byte
	for n := column + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

func sheetRange(table string) string {
	return "'" + strings.ReplaceAll(table, "'", "''") + "'"
}
