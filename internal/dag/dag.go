package dag

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrCycle is returned by DetectCycles when the graph is not acyclic.
var ErrCycle = errors.New("cycle detected")

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes:      make(map[string]*node),
		dependents: make(map[string]map[string]struct{}),
	}
}

// Build creates a graph from specs. No validation is performed: unknown
// dependencies and cycles are recorded as declared.
func Build(specs ...Spec) *Graph {
	g := New()
	for _, s := range specs {
		g.AddNode(s.Name, s.DependsOn...)
	}
	return g
}

// AddNode adds a node with the given dependencies. Adding an existing node
// appends any new dependencies to it.
func (g *Graph) AddNode(name string, deps ...string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	n, ok := g.nodes[name]
	if !ok {
		n = &node{name: name}
		g.nodes[name] = n
		g.order = append(g.order, name)
	}
	for _, d := range deps {
		if slices.Contains(n.deps, d) {
			continue
		}
		n.deps = append(n.deps, d)
		if g.dependents[d] == nil {
			g.dependents[d] = make(map[string]struct{})
		}
		g.dependents[d][name] = struct{}{}
	}
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}
	g.mutex.RLock()
	_, fromOK := g.nodes[fromID]
	_, toOK := g.nodes[toID]
	g.mutex.RUnlock()
	if !fromOK {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	if !toOK {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	g.AddNode(toID, fromID)
	return nil
}

// Has reports whether name is a declared node.
func (g *Graph) Has(name string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[name]
	return ok
}

// Len returns the number of declared nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Nodes returns the declared node names in insertion order.
func (g *Graph) Nodes() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return slices.Clone(g.order)
}

// Dependencies returns the names the given node depends on, in declaration order.
func (g *Graph) Dependencies(name string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[name]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", name)
	}
	return slices.Clone(n.deps), nil
}

// Dependents returns the sorted names of nodes that depend on name. The
// name does not have to be a declared node.
func (g *Graph) Dependents(name string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return sortedSet(g.dependents[name])
}

// DependencyMap returns a copy of the node → dependencies mapping.
func (g *Graph) DependencyMap() map[string][]string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	out := make(map[string][]string, len(g.nodes))
	for name, n := range g.nodes {
		out[name] = slices.Clone(n.deps)
	}
	return out
}

// DependentMap returns a copy of the name → dependents mapping.
func (g *Graph) DependentMap() map[string][]string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	out := make(map[string][]string, len(g.dependents))
	for name, set := range g.dependents {
		out[name] = sortedSet(set)
	}
	return out
}

// Missing returns, for every node with dependencies that are not declared
// nodes, the list of those dependencies.
func (g *Graph) Missing() map[string][]string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	out := make(map[string][]string)
	for _, name := range g.order {
		for _, d := range g.nodes[name].deps {
			if _, ok := g.nodes[d]; !ok {
				out[name] = append(out[name], d)
			}
		}
	}
	return out
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, indicating the first node involved in the detected cycle.
// Edges to undeclared names are ignored.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and not part of a cycle.
	// temporary: in the recursion stack of the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if permanent[name] {
			return nil
		}
		if temporary[name] {
			return fmt.Errorf("%w involving node '%s'", ErrCycle, name)
		}
		temporary[name] = true

		for _, dependent := range sortedSet(g.dependents[name]) {
			if _, ok := g.nodes[dependent]; !ok {
				continue
			}
			if err := visit(dependent); err != nil {
				return err
			}
		}

		delete(temporary, name)
		permanent[name] = true
		return nil
	}

	for _, name := range g.order {
		if !permanent[name] {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
