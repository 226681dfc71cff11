package hierarchy

import "hrcore/pkg/domain"

// Metadata keys set on every employee node in addition to pass-through
// roster columns.
const (
	MetaTitle      = "title"
	MetaDepartment = "department"
)

// Resolve builds the employee hierarchy for records. The result always has
// exactly one root: the single real root when there is one, otherwise a
// synthetic node whose children are the real roots in input order. The
// node count equals len(records) plus at most one.
func Resolve(records []domain.EmployeeRecord) domain.Forest {
	g := buildGraph(records)

	nodes := make([]*domain.TreeNode, len(records))
	for i, rec := range records {
		nodes[i] = newTreeNode(rec)
	}
	var roots []*domain.TreeNode
	for i, manager := range g.parent {
		if manager == noManager {
			roots = append(roots, nodes[i])
			continue
		}
		nodes[manager].Children = append(nodes[manager].Children, nodes[i])
	}

	return domain.Forest{
		Root:        treeRoot(roots),
		Diagnostics: g.diagnostics,
	}
}

func newTreeNode(rec domain.EmployeeRecord) *domain.TreeNode {
	meta := make(map[string]string, len(rec.Metadata)+2)
	for k, v := range rec.Metadata {
		meta[k] = v
	}
	meta[MetaTitle] = rec.Title
	meta[MetaDepartment] = rec.Department
	return &domain.TreeNode{
		SubjectID: rec.ID,
		Label:     rec.DisplayName,
		Metadata:  meta,
	}
}

func treeRoot(roots []*domain.TreeNode) *domain.TreeNode {
	if len(roots) == 1 {
		return roots[0]
	}
	return &domain.TreeNode{
		SubjectID: domain.SyntheticRootID,
		Label:     domain.SyntheticRootLabel,
		Children:  roots,
		Synthetic: true,
	}
}
