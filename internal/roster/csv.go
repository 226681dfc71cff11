package roster

import (
	"encoding/csv"
	"fmt"
	"io"

	"hrcore/pkg/domain"
)

// ReadCSV parses a CSV roster export. Ragged rows are accepted; the
// normalizer treats missing cells as empty.
func ReadCSV(r io.Reader) ([]domain.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read roster csv: %w", err)
	}
	rows := make([]domain.Row, len(records))
	for i, rec := range records {
		rows[i] = domain.Row(rec)
	}
	return rows, nil
}
