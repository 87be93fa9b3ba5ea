package scheduler

import (
	"context"
	"sort"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/dag"
)

// Completed reports whether a name has completed in the current run.
type Completed interface {
	IsCompleted(name string) bool
}

// CompletedSet is a plain set implementation of Completed.
type CompletedSet map[string]struct{}

// IsCompleted implements Completed.
func (s CompletedSet) IsCompleted(name string) bool {
	_, ok := s[name]
	return ok
}

// Scheduler selects the nodes that are ready to run.
type Scheduler interface {
	// Ready returns the names that are not completed and whose dependencies
	// all are. The result is sorted; callers must not rely on the order
	// beyond determinism.
	Ready(ctx context.Context, completed Completed) []string
}

// DefaultScheduler computes ready sets from a fixed graph.
type DefaultScheduler struct {
	graph *dag.Graph
}

// New creates a scheduler for graph.
func New(graph *dag.Graph) *DefaultScheduler {
	return &DefaultScheduler{graph: graph}
}

// Ready implements Scheduler.
func (s *DefaultScheduler) Ready(ctx context.Context, completed Completed) []string {
	ready := Ready(s.graph, completed)
	ctxlog.FromContext(ctx).Debug("Computed ready set.", "ready", ready)
	return ready
}

// Ready is the pure readiness function behind DefaultScheduler.
func Ready(graph *dag.Graph, completed Completed) []string {
	deps := graph.DependencyMap()
	ready := make([]string, 0, len(deps))
	for name, ds := range deps {
		if completed.IsCompleted(name) {
			continue
		}
		if allCompleted(ds, completed) {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)
	return ready
}

func allCompleted(names []string, completed Completed) bool {
	for _, n := range names {
		if !completed.IsCompleted(n) {
			return false
		}
	}
	return true
}
