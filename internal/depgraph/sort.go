package depgraph

// TopologicalSort orders the nodes so that every node comes after all of its
// dependencies (Kahn's algorithm, seeded in insertion order). Nodes that sit
// on or behind a cycle can never be released; they are returned in unsorted,
// in insertion order. The graph is acyclic exactly when unsorted is empty.
func (g *Graph[K]) TopologicalSort() (sorted, unsorted []K) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	remaining := make(map[K]int, len(g.nodes))
	queue := make([]*node[K], 0, len(g.order))
	for _, id := range g.order {
		n := g.nodes[id]
		remaining[id] = len(n.deps)
		if len(n.deps) == 0 {
			queue = append(queue, n)
		}
	}

	sorted = make([]K, 0, len(g.order))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		sorted = append(sorted, n.id)
		for _, dependent := range n.dependents {
			remaining[dependent.id]--
			if remaining[dependent.id] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	for _, id := range g.order {
		if remaining[id] > 0 {
			unsorted = append(unsorted, id)
		}
	}
	return sorted, unsorted
}

// FindCycle returns the nodes of one cycle in edge order, or nil when the
// graph is acyclic. For a self edge the cycle has a single node.
func (g *Graph[K]) FindCycle() []K {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes on the current recursion stack, with their stack position.
	// unvisited: all other nodes.
	permanent := make(map[K]bool)
	temporary := make(map[K]int)
	var stack []K

	var visit func(n *node[K]) []K
	visit = func(n *node[K]) []K {
		if permanent[n.id] {
			return nil
		}
		if at, ok := temporary[n.id]; ok {
			// n is already on the stack: everything from it onwards is the cycle.
			return append([]K(nil), stack[at:]...)
		}

		temporary[n.id] = len(stack)
		stack = append(stack, n.id)

		for _, dependent := range n.dependents {
			if cycle := visit(dependent); cycle != nil {
				return cycle
			}
		}

		stack = stack[:len(stack)-1]
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range g.order {
		if cycle := visit(g.nodes[id]); cycle != nil {
			return cycle
		}
	}
	return nil
}
