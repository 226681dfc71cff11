package hierarchy

import (
	"fmt"
	"strings"

	"hrcore/pkg/domain"
)

type roleGroup struct {
	key       domain.RoleKey
	members   []domain.EmployeeRecord
	positions []int
}

// AggregateByRole groups records by (title, department) and links each
// group to the role most of its members report to. Role-level loops,
// including a group whose modal manager role is itself, are severed the
// same way Resolve severs employee loops. Every record appears in exactly
// one group's Members.
func AggregateByRole(records []domain.EmployeeRecord) domain.RoleForest {
	g := buildGraph(records)

	groupOf := make([]int, len(records))
	index := make(map[domain.RoleKey]int)
	var groups []*roleGroup
	for i, rec := range records {
		id := domain.RoleKey{Title: normalizeName(rec.Title), Department: normalizeName(rec.Department)}
		gi, ok := index[id]
		if !ok {
			gi = len(groups)
			index[id] = gi
			groups = append(groups, &roleGroup{key: domain.RoleKey{
				Title:      strings.TrimSpace(rec.Title),
				Department: strings.TrimSpace(rec.Department),
			}})
		}
		groupOf[i] = gi
		groups[gi].members = append(groups[gi].members, rec)
		groups[gi].positions = append(groups[gi].positions, i)
	}

	parent := make([]int, len(groups))
	for gi, grp := range groups {
		parent[gi] = modalManagerGroup(grp.positions, g.parent, groupOf, records)
	}

	diagnostics := g.diagnostics
	severCycles(parent, func(child, manager int) {
		from, to := groups[child].key, groups[manager].key
		msg := fmt.Sprintf("role %s reports to %s which leads back to it; edge severed", from, to)
		if child == manager {
			msg = fmt.Sprintf("role %s mostly reports to itself; treating it as a root", from)
		}
		diagnostics = append(diagnostics, domain.Diagnostic{
			Kind:      domain.DiagnosticSeveredCycle,
			Severity:  domain.SeverityLog,
			Entity:    domain.EntityRole,
			SubjectID: from.String(),
			Related:   to.String(),
			Message:   msg,
		})
	})

	nodes := make([]*domain.RoleNode, len(groups))
	for gi, grp := range groups {
		nodes[gi] = &domain.RoleNode{
			SubjectID: grp.key,
			Label:     grp.key.Title,
			Members:   grp.members,
		}
	}
	var roots []*domain.RoleNode
	for gi, manager := range parent {
		if manager == noManager {
			roots = append(roots, nodes[gi])
			continue
		}
		nodes[manager].Children = append(nodes[manager].Children, nodes[gi])
	}

	return domain.RoleForest{
		Root:        roleRoot(roots),
		Diagnostics: diagnostics,
	}
}

// modalManagerGroup returns the parent group for one role group. Managers
// vote by title first, so same-titled managers in different departments
// pool their votes; the winning title's most common group is returned.
// Both stages break ties by first-seen order. noManager means no member has
// a manager.
func modalManagerGroup(positions, employeeParent, groupOf []int, records []domain.EmployeeRecord) int {
	titleVotes := newTally[string]()
	groupVotes := make(map[string]*tally[int])
	for _, pos := range positions {
		manager := employeeParent[pos]
		if manager == noManager {
			continue
		}
		title := normalizeName(records[manager].Title)
		titleVotes.add(title)
		if groupVotes[title] == nil {
			groupVotes[title] = newTally[int]()
		}
		groupVotes[title].add(groupOf[manager])
	}
	title, ok := titleVotes.mode()
	if !ok {
		return noManager
	}
	best, _ := groupVotes[title].mode()
	return best
}

// tally counts votes and remembers first-seen order.
type tally[K comparable] struct {
	counts map[K]int
	order  []K
}

func newTally[K comparable]() *tally[K] {
	return &tally[K]{counts: make(map[K]int)}
}

func (t *tally[K]) add(k K) {
	if _, seen := t.counts[k]; !seen {
		t.order = append(t.order, k)
	}
	t.counts[k]++
}

// mode returns the most counted key, earliest first on ties.
func (t *tally[K]) mode() (K, bool) {
	var best K
	bestCount := 0
	for _, k := range t.order {
		if t.counts[k] > bestCount {
			best, bestCount = k, t.counts[k]
		}
	}
	return best, bestCount > 0
}

func roleRoot(roots []*domain.RoleNode) *domain.RoleNode {
	if len(roots) == 1 {
		return roots[0]
	}
	return &domain.RoleNode{
		SubjectID: domain.RoleKey{Title: domain.SyntheticRootID},
		Label:     domain.SyntheticRootLabel,
		Children:  roots,
		Synthetic: true,
	}
}
