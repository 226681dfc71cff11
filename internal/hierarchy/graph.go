package hierarchy

import (
	"fmt"
	"strings"

	"hrcore/pkg/domain"
)

// noManager marks a position without a (remaining) manager edge.
const noManager = -1

// graph holds the manager edge of every record by input position. Positions
// rather than ids identify nodes so that duplicate ids never collapse.
type graph struct {
	records     []domain.EmployeeRecord
	parent      []int
	diagnostics domain.Diagnostics
}

// normalizeName upper-cases a name and collapses inner whitespace.
func normalizeName(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

func buildGraph(records []domain.EmployeeRecord) *graph {
	g := &graph{
		records: records,
		parent:  make([]int, len(records)),
	}

	byName := make(map[string]int, len(records))
	byID := make(map[string]int, len(records))
	for i, rec := range records {
		if prev, dup := byID[rec.ID]; dup {
			g.diagnostics = append(g.diagnostics, domain.Diagnostic{
				Kind:      domain.DiagnosticDuplicateID,
				Severity:  domain.SeverityWarn,
				Entity:    domain.EntityEmployee,
				SubjectID: rec.ID,
				Related:   records[prev].DisplayName,
				Message:   fmt.Sprintf("employee id %q is shared by %q and %q", rec.ID, records[prev].DisplayName, rec.DisplayName),
			})
		} else {
			byID[rec.ID] = i
		}

		name := normalizeName(rec.DisplayName)
		if name == "" {
			continue
		}
		if prev, dup := byName[name]; dup {
			g.diagnostics = append(g.diagnostics, domain.Diagnostic{
				Kind:      domain.DiagnosticDuplicateName,
				Severity:  domain.SeverityWarn,
				Entity:    domain.EntityEmployee,
				SubjectID: rec.ID,
				Related:   records[prev].ID,
				Message:   fmt.Sprintf("display name %q already belongs to %s; manager references resolve to the first occurrence", rec.DisplayName, records[prev].ID),
			})
			continue
		}
		byName[name] = i
	}

	for i, rec := range records {
		g.parent[i] = noManager
		if !rec.HasManager() {
			continue
		}
		manager, ok := byName[normalizeName(*rec.ManagerDisplayName)]
		if !ok {
			g.diagnostics = append(g.diagnostics, domain.Diagnostic{
				Kind:      domain.DiagnosticMissingManager,
				Severity:  domain.SeverityWarn,
				Entity:    domain.EntityEmployee,
				SubjectID: rec.ID,
				Related:   strings.TrimSpace(*rec.ManagerDisplayName),
				Message:   fmt.Sprintf("manager %q of %s is not on the roster; treating %s as a root", strings.TrimSpace(*rec.ManagerDisplayName), rec.ID, rec.ID),
			})
			continue
		}
		g.parent[i] = manager
	}

	severCycles(g.parent, func(child, manager int) {
		g.diagnostics = append(g.diagnostics, domain.Diagnostic{
			Kind:      domain.DiagnosticSeveredCycle,
			Severity:  domain.SeverityWarn,
			Entity:    domain.EntityEmployee,
			SubjectID: records[child].ID,
			Related:   records[manager].ID,
			Message:   fmt.Sprintf("manager chain of %s loops back through %s; edge %s -> %s severed", records[child].ID, records[manager].ID, records[child].ID, records[manager].ID),
		})
	})
	return g
}
