package roster

import "strings"

// Field names a record attribute that a roster column can map to.
type Field string

// Mappable record fields.
const (
	FieldID          Field = "id"
	FieldDisplayName Field = "display_name"
	FieldTitle       Field = "title"
	FieldDepartment  Field = "department"
	FieldManager     Field = "manager"
)

var requiredFields = []Field{FieldDisplayName, FieldTitle, FieldDepartment, FieldManager}

// Columns lists, per field, the header names accepted for it. Matching is
// trimmed and case-insensitive; the first alias present in the header wins.
type Columns map[Field][]string

// DefaultColumns accepts plain English headers and the headers used by the
// legacy HR spreadsheet.
func DefaultColumns() Columns {
	return Columns{
		FieldID:          {"id", "employee_id", "cedula"},
		FieldDisplayName: {"display_name", "name", "full_name", "nombre completo", "nombre"},
		FieldTitle:       {"title", "job_title", "cargo"},
		FieldDepartment:  {"department", "departamento"},
		FieldManager:     {"manager", "manager_display_name", "jefe_directo", "jefe directo"},
	}
}

// Merge returns a copy of c where fields present in override replace the
// defaults entirely.
func (c Columns) Merge(override Columns) Columns {
	out := make(Columns, len(c)+len(override))
	for f, aliases := range c {
		out[f] = append([]string(nil), aliases...)
	}
	for f, aliases := range override {
		if len(aliases) > 0 {
			out[f] = append([]string(nil), aliases...)
		}
	}
	return out
}

func headerKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// layout is a header resolved against Columns.
type layout struct {
	fields map[Field]int
	extras map[int]string
}

func resolveLayout(header []string, cols Columns) (layout, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := headerKey(h)
		if key == "" {
			continue
		}
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	l := layout{fields: make(map[Field]int), extras: make(map[int]string)}
	for field, aliases := range cols {
		for _, alias := range aliases {
			if pos, ok := positions[headerKey(alias)]; ok {
				l.fields[field] = pos
				break
			}
		}
	}
	var missing []string
	for _, f := range requiredFields {
		if _, ok := l.fields[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return layout{}, &MissingColumnError{Fields: missing}
	}

	mapped := make(map[int]struct{}, len(l.fields))
	for _, pos := range l.fields {
		mapped[pos] = struct{}{}
	}
	for i, h := range header {
		if _, ok := mapped[i]; ok {
			continue
		}
		if name := strings.TrimSpace(h); name != "" {
			l.extras[i] = name
		}
	}
	return l, nil
}
