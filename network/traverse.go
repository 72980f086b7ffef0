package network

// Reachable returns every node reachable from id by following links, in
// breadth-first order, excluding id unless a cycle leads back to it.
func (n *Network) Reachable(id NodeID) ([]NodeID, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if err := n.check(id); err != nil {
		return nil, err
	}

	visited := make([]bool, len(n.subjects))
	order := make([]NodeID, 0)
	queue := []NodeID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range n.edges[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			order = append(order, next)
			queue = append(queue, next)
		}
	}
	return order, nil
}

// HasCycle reports whether any chain of links returns to its start.
func (n *Network) HasCycle() bool {
	return n.FindCycle() != nil
}

const (
	white = iota
	grey
	black
)

// FindCycle returns the nodes of one cycle in link order, or nil when the
// network is acyclic. A self link is a cycle of one.
func (n *Network) FindCycle() []NodeID {
	n.mu.RLock()
	defer n.mu.RUnlock()

	color := make([]int, len(n.subjects))
	parent := make([]NodeID, len(n.subjects))

	var cycle []NodeID
	var visit func(u NodeID) bool
	visit = func(u NodeID) bool {
		color[u] = grey
		for _, v := range n.edges[u] {
			switch color[v] {
			case white:
				parent[v] = u
				if visit(v) {
					return true
				}
			case grey:
				// back edge u → v closes v … u
				cycle = []NodeID{u}
				for w := u; w != v; {
					w = parent[w]
					cycle = append(cycle, w)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return true
			}
		}
		color[u] = black
		return false
	}

	for u := range n.subjects {
		if color[u] == white && visit(NodeID(u)) {
			return cycle
		}
	}
	return nil
}
