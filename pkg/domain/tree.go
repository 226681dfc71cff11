package domain

// SyntheticRootID and SyntheticRootLabel identify the node inserted above
// several real roots so that callers always receive a single tree.
const (
	SyntheticRootID    = "__root__"
	SyntheticRootLabel = "Organization"
)

// TreeNode is one employee in a resolved hierarchy. Nodes belong to the
// forest that produced them and are never shared between forests.
type TreeNode struct {
	SubjectID string            `json:"subject_id"`
	Label     string            `json:"label"`
	Children  []*TreeNode       `json:"children,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Synthetic bool              `json:"synthetic,omitempty"`
}

// Walk visits the node and its descendants depth-first, parents before
// children. Returning false from fn stops the descent below that node.
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int) bool) {
	walkTree(n, 0, fn)
}

func walkTree(n *TreeNode, depth int, fn func(*TreeNode, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walkTree(child, depth+1, fn)
	}
}

// Count returns the number of nodes in the subtree, including n.
func (n *TreeNode) Count() int {
	total := 0
	n.Walk(func(*TreeNode, int) bool {
		total++
		return true
	})
	return total
}

// Forest is the result of resolving a roster: exactly one root plus the
// anomalies found while building it.
type Forest struct {
	Root        *TreeNode   `json:"root"`
	Diagnostics Diagnostics `json:"diagnostics,omitempty"`
}

// Roots returns the real top-level nodes, unwrapping a synthetic root.
func (f Forest) Roots() []*TreeNode {
	if f.Root == nil {
		return nil
	}
	if f.Root.Synthetic {
		return f.Root.Children
	}
	return []*TreeNode{f.Root}
}

// RoleNode is a role group in an aggregated hierarchy.
type RoleNode struct {
	SubjectID RoleKey          `json:"subject_id"`
	Label     string           `json:"label"`
	Members   []EmployeeRecord `json:"members,omitempty"`
	Children  []*RoleNode      `json:"children,omitempty"`
	Synthetic bool             `json:"synthetic,omitempty"`
}

// Walk visits the node and its descendants depth-first.
func (n *RoleNode) Walk(fn func(node *RoleNode, depth int) bool) {
	walkRoles(n, 0, fn)
}

func walkRoles(n *RoleNode, depth int, fn func(*RoleNode, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walkRoles(child, depth+1, fn)
	}
}

// RoleForest is the per-role counterpart of Forest.
type RoleForest struct {
	Root        *RoleNode   `json:"root"`
	Diagnostics Diagnostics `json:"diagnostics,omitempty"`
}

// Roots returns the real top-level role nodes.
func (f RoleForest) Roots() []*RoleNode {
	if f.Root == nil {
		return nil
	}
	if f.Root.Synthetic {
		return f.Root.Children
	}
	return []*RoleNode{f.Root}
}
