package executor

import (
	"context"
	"fmt"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/dag"
	"github.com/vk/taskgrid/internal/group"
	"github.com/vk/taskgrid/internal/task"
)

// expandTriggered expands every group whose trigger is name. It returns the
// name of the first group whose batch failed, or an error for a group that
// could not be expanded or recorded at all.
func (e *Executor) expandTriggered(ctx context.Context, graph *dag.Graph, name string, trigger task.Result, expanded map[string]bool) (string, error) {
	logger := ctxlog.FromContext(ctx)

	for _, grp := range e.plan.Groups() {
		if grp.Trigger() != name || expanded[grp.Name()] {
			continue
		}
		expanded[grp.Name()] = true

		res, err := grp.Expand(ctx, e.plan, trigger.Output)
		if serr := e.recordDerived(ctx, grp); serr != nil {
			return grp.Name(), serr
		}
		if err != nil {
			logger.Error("Task group expansion failed.", "group", grp.Name(), "error", err)
			if serr := e.complete(ctx, grp.Name(), task.Failed(err)); serr != nil {
				return grp.Name(), serr
			}
			return grp.Name(), fmt.Errorf("task group %q: %w", grp.Name(), err)
		}

		if err := e.complete(ctx, grp.Name(), res); err != nil {
			return grp.Name(), err
		}
		e.publish(ctx, graph, grp.Name(), res)

		if !res.Success {
			logger.Error("❌ Task group failed.", "group", grp.Name(), "error", res.Err)
			return grp.Name(), nil
		}
		logger.Info("✅ Task group succeeded.", "group", grp.Name(), "duration", res.Duration)
	}
	return "", nil
}

// recordDerived stores the per-item results of a group's derived tasks
// under their own names.
func (e *Executor) recordDerived(ctx context.Context, grp *group.Group) error {
	for _, ir := range grp.Results() {
		if err := e.complete(ctx, ir.Task, ir.Result); err != nil {
			return err
		}
	}
	return nil
}

// complete records res for name and marks it completed.
func (e *Executor) complete(ctx context.Context, name string, res task.Result) error {
	if err := e.store.SetResult(ctx, name, res); err != nil {
		return &StoreError{Op: "set result", Name: name, Err: err}
	}
	if err := e.store.MarkCompleted(ctx, name); err != nil {
		return &StoreError{Op: "mark completed", Name: name, Err: err}
	}
	return nil
}

// publish delivers a group's output to the tasks that depend on it.
func (e *Executor) publish(ctx context.Context, graph *dag.Graph, name string, res task.Result) {
	for _, dependent := range graph.Dependents(name) {
		if t, ok := e.plan.Task(dependent); ok {
			ctxlog.FromContext(ctx).Debug("Publishing group output.", "group", name, "task", dependent)
			t.Deliver(task.DependencyResolved{Name: name, Output: res.Output})
		}
	}
}
