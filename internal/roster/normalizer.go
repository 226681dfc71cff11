package roster

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"hrcore/pkg/domain"
)

// idNamespace seeds the UUIDv5 ids assigned to rows without an id column
// value. Changing it changes every generated id.
var idNamespace = uuid.MustParse("6f1d3c2a-41b8-5e7c-9a0d-2c4b8e7f1a53")

// Result carries the normalized records plus the rows that were dropped.
type Result struct {
	Records     []domain.EmployeeRecord
	Diagnostics domain.Diagnostics
}

// Normalizer converts raw rows into employee records.
type Normalizer struct {
	columns  Columns
	table    string
	validate *validator.Validate
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithColumns overrides header aliases for the given fields.
func WithColumns(cols Columns) Option {
	return func(n *Normalizer) {
		n.columns = n.columns.Merge(cols)
	}
}

// WithTable names the source table. The name feeds generated ids so the
// same row in two tables never collides.
func WithTable(table string) Option {
	return func(n *Normalizer) {
		n.table = table
	}
}

// NewNormalizer returns a normalizer using DefaultColumns.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		columns:  DefaultColumns(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize treats rows[0] as the header. Data rows that cannot become a
// valid record are skipped and reported; only a missing header or required
// column is an error.
func (n *Normalizer) Normalize(rows []domain.Row) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrEmptyTable
	}
	l, err := resolveLayout(rows[0], n.columns)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i, row := range rows[1:] {
		rowNumber := i + 2 // 1-based, counting the header
		if blankRow(row) {
			continue
		}
		rec := n.record(row, l, rowNumber)
		if rec.DisplayName == "" {
			res.Diagnostics = append(res.Diagnostics, skipped(rowNumber, "display name is empty"))
			continue
		}
		if err := n.validate.Struct(rec); err != nil {
			res.Diagnostics = append(res.Diagnostics, skipped(rowNumber, err.Error()))
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func (n *Normalizer) record(row domain.Row, l layout, rowNumber int) domain.EmployeeRecord {
	field := func(f Field) string {
		pos, ok := l.fields[f]
		if !ok {
			return ""
		}
		return strings.TrimSpace(row.Cell(pos))
	}

	rec := domain.EmployeeRecord{
		ID:          field(FieldID),
		DisplayName: collapseSpaces(field(FieldDisplayName)),
		Title:       collapseSpaces(field(FieldTitle)),
		Department:  collapseSpaces(field(FieldDepartment)),
	}
	if manager := collapseSpaces(field(FieldManager)); manager != "" {
		rec.ManagerDisplayName = &manager
	}
	if rec.ID == "" && rec.DisplayName != "" {
		rec.ID = n.generatedID(rec.DisplayName, rowNumber)
	}
	for pos, name := range l.extras {
		value := strings.TrimSpace(row.Cell(pos))
		if value == "" {
			continue
		}
		if rec.Metadata == nil {
			rec.Metadata = make(map[string]string, len(l.extras))
		}
		rec.Metadata[name] = value
	}
	return rec
}

func (n *Normalizer) generatedID(displayName string, rowNumber int) string {
	payload := n.table + ":" + strings.ToUpper(displayName) + ":" + strconv.Itoa(rowNumber)
	return uuid.NewSHA1(idNamespace, []byte(payload)).String()
}

// Load reads table from store and normalizes it.
func (n *Normalizer) Load(ctx context.Context, store domain.RowStore, table string) (Result, error) {
	rows, err := store.ReadAllRows(ctx, table)
	if err != nil {
		return Result{}, fmt.Errorf("read roster table %q: %w", table, err)
	}
	scoped := *n
	if scoped.table == "" {
		scoped.table = table
	}
	res, err := scoped.Normalize(rows)
	if err != nil {
		return Result{}, fmt.Errorf("normalize roster table %q: %w", table, err)
	}
	return res, nil
}

// Load normalizes table with default columns.
func Load(ctx context.Context, store domain.RowStore, table string) (Result, error) {
	return NewNormalizer().Load(ctx, store, table)
}

func skipped(rowNumber int, reason string) domain.Diagnostic {
	return domain.Diagnostic{
		Kind:      domain.DiagnosticSkippedRow,
		Severity:  domain.SeverityWarn,
		Entity:    domain.EntityRow,
		SubjectID: strconv.Itoa(rowNumber),
		Message:   fmt.Sprintf("row %d skipped: %s", rowNumber, reason),
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func blankRow(row domain.Row) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
