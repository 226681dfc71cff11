package hierarchy

// Walk states for severCycles.
const (
	unvisited uint8 = iota
	onPath
	done
)

// severCycles walks every manager chain once and cuts the edge that closes
// a loop. parent is modified in place; sever is called before each cut with
// the node whose edge is removed and the manager it pointed at.
//
// A node enters a path at most once and is marked done when its walk ends,
// so the total work is bounded by len(parent) regardless of cycle length.
func severCycles(parent []int, sever func(child, manager int)) {
	state := make([]uint8, len(parent))
	path := make([]int, 0, 16)
	for start := range parent {
		if state[start] != unvisited {
			continue
		}
		path = path[:0]
		for cur := start; ; {
			state[cur] = onPath
			path = append(path, cur)
			next := parent[cur]
			if next == noManager || state[next] == done {
				break
			}
			if state[next] == onPath {
				if sever != nil {
					sever(cur, next)
				}
				parent[cur] = noManager
				break
			}
			cur = next
		}
		for _, node := range path {
			state[node] = done
		}
	}
}
