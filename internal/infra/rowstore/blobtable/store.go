// Package blobtable keeps each logical table as one CSV object in a blob
// store. Appends and cell updates rewrite the whole object.
package blobtable

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"hrcore/internal/blob/core"
	"hrcore/pkg/domain"
)

// DefaultPrefix is prepended to table names when building object keys.
const DefaultPrefix = "tables/"

const contentType = "text/csv"

var _ domain.RowStore = (*Store)(nil)

// Store implements domain.RowStore on a core.Store. Writers in the same
// process are serialized; concurrent processes may lose updates.
type Store struct {
	blobs  core.Store
	prefix string
	mu     sync.Mutex
}

// NewStore wraps blobs. An empty prefix selects DefaultPrefix.
func NewStore(blobs core.Store, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{blobs: blobs, prefix: prefix}
}

// Key returns the object key holding table.
func (s *Store) Key(table string) string {
	return s.prefix + table + ".csv"
}

// AppendRow implements domain.RowStore.
func (s *Store) AppendRow(ctx context.Context, table string, row domain.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.read(ctx, table)
	if err != nil {
		return err
	}
	return s.write(ctx, table, append(rows, row.Clone()))
}

// ReadAllRows implements domain.RowStore. A missing object reads as an
// empty table.
func (s *Store) ReadAllRows(ctx context.Context, table string) ([]domain.Row, error) {
	return s.read(ctx, table)
}

// UpdateCell implements domain.RowStore.
func (s *Store) UpdateCell(ctx context.Context, table string, row, column int, value string) error {
	if column < 0 {
		return fmt.Errorf("blobtable: negative column %d", column)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.read(ctx, table)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(rows) {
		return fmt.Errorf("blobtable: table %q row %d: %w", table, row, domain.ErrRowOutOfRange)
	}
	rows[row] = domain.SetCell(rows[row], column, value)
	return s.write(ctx, table, rows)
}

func (s *Store) read(ctx context.Context, table string) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := s.Key(table)
	_, rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("blobtable: read %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	rows, err := decode(rc)
	if err != nil {
		return nil, fmt.Errorf("blobtable: decode %s: %w", key, err)
	}
	return rows, nil
}

func (s *Store) write(ctx context.Context, table string, rows []domain.Row) error {
	data, err := encode(rows)
	if err != nil {
		return err
	}
	key := s.Key(table)
	if _, err := s.blobs.Put(ctx, key, bytes.NewReader(data), core.PutOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("blobtable: write %s: %w", key, err)
	}
	return nil
}

func decode(r io.Reader) ([]domain.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	var rows []domain.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make(domain.Row, len(record))
		for i, cell := range record {
			row[i] = unescapeCell(cell)
		}
		rows = append(rows, row)
	}
}

// encode writes rows as CSV. A row with no non-empty cell and at most one
// column is written as a quoted empty field because csv readers drop blank
// lines, which would shift every later row index. Cells are escaped with
// escapeCell since csv readers also turn a quoted \r\n into \n.
func encode(rows []domain.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			w.Flush()
			buf.WriteString("\"\"\n")
			continue
		}
		escaped := make([]string, len(row))
		for i, cell := range row {
			escaped[i] = escapeCell(cell)
		}
		if err := w.Write(escaped); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var cellEscaper = strings.NewReplacer(`\`, `\\`, "\r", `\r`)

// escapeCell doubles backslashes and spells carriage returns as \r.
func escapeCell(cell string) string {
	return cellEscaper.Replace(cell)
}

// unescapeCell reverses escapeCell. An unknown escape is kept verbatim.
func unescapeCell(cell string) string {
	if !strings.Contains(cell, `\`) {
		return cell
	}
	var b strings.Builder
	b.Grow(len(cell))
	for i := 0; i < len(cell); i++ {
		c := cell[i]
		if c != '\\' || i+1 == len(cell) {
			b.WriteByte(c)
			continue
		}
		switch cell[i+1] {
		case '\\':
			b.WriteByte('\\')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
