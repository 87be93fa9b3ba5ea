// Package nodestore defines the interface for the mutable state of a single
// run: the per-name results recorded so far and the set of names that have
// completed.
//
// The executor is the only writer. Results are written by the goroutine that
// ran the task, right after the task returned; completion is marked by the
// executor's round loop once the round's results are in. Readers (the
// scheduler, task preparation and the final outcome) may run concurrently
// with writers for other names.
package nodestore

import (
	"context"

	"github.com/vk/taskgrid/internal/task"
)

// Store holds the results and completion state of one run.
type Store interface {
	// SetState records the execution state of a task. It returns task.StatePending
	// from State for names that were never set.
	SetState(ctx context.Context, name string, state task.State) error
	State(ctx context.Context, name string) task.State

	// SetResult records the result for name, replacing any previous one.
	SetResult(ctx context.Context, name string, res task.Result) error
	// Result returns the recorded result for name.
	Result(ctx context.Context, name string) (task.Result, bool)
	// Results returns a snapshot of every recorded result.
	Results(ctx context.Context) map[string]task.Result

	// MarkCompleted adds name to the completed set. Completion is
	// independent of success: a failed task is completed too.
	MarkCompleted(ctx context.Context, name string) error
	// IsCompleted reports whether name is in the completed set.
	IsCompleted(name string) bool
	// Completed returns the completed names, sorted.
	Completed(ctx context.Context) []string
}
