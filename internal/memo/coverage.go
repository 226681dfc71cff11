package memo

import (
	"strings"

	"hrcore/pkg/domain"
)

// Gap is a subject that has no cached artifact of Kind.
type Gap struct {
	Kind       domain.Kind `json:"kind"`
	SubjectKey string      `json:"subject_key"`
	// Employees lists the display names affected, in roster order.
	Employees []string `json:"employees"`
}

// Coverage reports, for each kind, the subjects in records that have no
// entry in snap. Role scoped kinds yield one gap per title shared by all
// holders. With no kinds given every known kind is checked. Records whose
// subject attribute is empty are ignored.
func Coverage(snap *Snapshot, records []domain.EmployeeRecord, kinds ...domain.Kind) []Gap {
	if len(kinds) == 0 {
		kinds = domain.AllKinds()
	}
	var gaps []Gap
	for _, kind := range kinds {
		index := make(map[string]int)
		for _, rec := range records {
			subject := domain.SubjectFor(kind, rec)
			if subject == "" {
				continue
			}
			if _, ok := snap.Entry(subject, kind); ok {
				continue
			}
			pos, ok := index[subject]
			if !ok {
				pos = len(gaps)
				index[subject] = pos
				gaps = append(gaps, Gap{Kind: kind, SubjectKey: subject})
			}
			gaps[pos].Employees = append(gaps[pos].Employees, strings.TrimSpace(rec.DisplayName))
		}
	}
	return gaps
}
