// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// It keeps the state of one run in sync.Maps: the executor writes results
// from many goroutines at once while the round loop reads them, and every
// key is written by exactly one goroutine, which is the access pattern
// sync.Map is built for. The store is created fresh for each run and is not
// persisted.
package inmemorystore

import (
	"context"
	"sort"
	"sync"

	"github.com/vk/taskgrid/internal/nodestore"
	"github.com/vk/taskgrid/internal/task"
)

// Store is an in-memory implementation of nodestore.Store.
type Store struct {
	states    sync.Map // name -> task.State
	results   sync.Map // name -> task.Result
	completed sync.Map // name -> struct{}
}

var _ nodestore.Store = (*Store)(nil)

// New creates a new, empty in-memory store.
func New() *Store {
	return &Store{}
}

// SetState updates the execution state of a task.
func (s *Store) SetState(_ context.Context, name string, state task.State) error {
	s.states.Store(name, state)
	return nil
}

// State returns the execution state of a task, or task.StatePending if unset.
func (s *Store) State(_ context.Context, name string) task.State {
	v, ok := s.states.Load(name)
	if !ok {
		return task.StatePending
	}
	return v.(task.State)
}

// SetResult records the result for name.
func (s *Store) SetResult(_ context.Context, name string, res task.Result) error {
	s.results.Store(name, res)
	return nil
}

// Result returns the recorded result for name.
func (s *Store) Result(_ context.Context, name string) (task.Result, bool) {
	v, ok := s.results.Load(name)
	if !ok {
		return task.Result{}, false
	}
	return v.(task.Result), true
}

// Results returns a snapshot of all recorded results.
func (s *Store) Results(_ context.Context) map[string]task.Result {
	out := make(map[string]task.Result)
	s.results.Range(func(k, v any) bool {
		out[k.(string)] = v.(task.Result)
		return true
	})
	return out
}

// MarkCompleted adds name to the completed set.
func (s *Store) MarkCompleted(_ context.Context, name string) error {
	s.completed.Store(name, struct{}{})
	return nil
}

// IsCompleted reports whether name has completed.
func (s *Store) IsCompleted(name string) bool {
	_, ok := s.completed.Load(name)
	return ok
}

// Completed returns the completed names, sorted.
func (s *Store) Completed(_ context.Context) []string {
	var out []string
	s.completed.Range(func(k, _ any) bool {
		out = append(out, k.(string))
		return true
	})
	sort.Strings(out)
	return out
}
