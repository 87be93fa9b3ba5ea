package dag

import "sync"

// Graph is a collection of nodes and their dependencies.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the maps below during concurrent access.
	mutex sync.RWMutex
	// order lists node names in the order they were added.
	order []string
	// nodes stores all declared nodes, keyed by name.
	nodes map[string]*node
	// dependents maps any referenced name, declared or not, to the nodes
	// that depend on it.
	dependents map[string]map[string]struct{}
}

// node is a single vertex in the graph.
type node struct {
	name string
	// deps is the ordered, duplicate-free list of names this node depends on.
	deps []string
}

// Spec describes a node to add to a graph.
type Spec struct {
	Name      string
	DependsOn []string
}
