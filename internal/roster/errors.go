package roster

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn is matched by MissingColumnError via errors.Is.
var ErrMissingColumn = errors.New("roster: required column missing")

// ErrEmptyTable reports a table without a header row.
var ErrEmptyTable = errors.New("roster: table has no header row")

// MissingColumnError lists the required fields no header matched.
type MissingColumnError struct {
	Fields []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("roster: required column missing: %s", strings.Join(e.Fields, ", "))
}

// Is lets errors.Is(err, ErrMissingColumn) succeed.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
