package depgraph

import "sync"

// Graph is a collection of nodes and their dependencies. All operations on
// the graph are concurrency-safe.
type Graph[K comparable] struct {
	// mutex protects nodes and order during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[K]*node[K]
	// order lists node IDs in insertion order.
	order []K
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using IDs),
// not by direct struct manipulation.
type node[K comparable] struct {
	id K
	// deps holds the nodes this node depends on (predecessors), in edge order.
	deps []*node[K]
	// dependents holds the nodes that depend on this node (successors), in edge order.
	dependents []*node[K]
	// edges guards against recording the same dependent twice.
	edges map[K]struct{}
}
