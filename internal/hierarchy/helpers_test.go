package hierarchy

import (
	"strings"
	"testing"

	"hrcore/pkg/domain"
)

// emp builds a record whose id is the lower-cased name. An empty manager
// means no manager.
func emp(name, manager string) domain.EmployeeRecord {
	return empRole(name, manager, "Staff", "Ops")
}

func empRole(name, manager, title, dept string) domain.EmployeeRecord {
	rec := domain.EmployeeRecord{
		ID:          strings.ToLower(name),
		DisplayName: name,
		Title:       title,
		Department:  dept,
	}
	if manager != "" {
		m := manager
		rec.ManagerDisplayName = &m
	}
	return rec
}

// shape renders a tree as "a(b(c),d)" using subject ids.
func shape(n *domain.TreeNode) string {
	if n == nil {
		return ""
	}
	if len(n.Children) == 0 {
		return n.SubjectID
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, shape(c))
	}
	return n.SubjectID + "(" + strings.Join(parts, ",") + ")"
}

func roleShape(n *domain.RoleNode) string {
	if n == nil {
		return ""
	}
	if len(n.Children) == 0 {
		return n.SubjectID.Title
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, roleShape(c))
	}
	return n.SubjectID.Title + "(" + strings.Join(parts, ",") + ")"
}

// assertNoSelfAncestor fails if any node appears twice on a root path.
func assertNoSelfAncestor(t *testing.T, root *domain.TreeNode) {
	t.Helper()
	var visit func(n *domain.TreeNode, ancestors map[*domain.TreeNode]bool)
	visit = func(n *domain.TreeNode, ancestors map[*domain.TreeNode]bool) {
		if ancestors[n] {
			t.Fatalf("node %s is its own ancestor", n.SubjectID)
		}
		ancestors[n] = true
		for _, c := range n.Children {
			visit(c, ancestors)
		}
		delete(ancestors, n)
	}
	visit(root, map[*domain.TreeNode]bool{})
}
