package executor

import (
	"context"
	"sync"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/errgroup"
)

// runRound dispatches every named task at once and waits for all of them.
// Each result is written to the store by the goroutine that produced it. The
// error is the first failed store write of the round.
func (e *Executor) runRound(ctx context.Context, names []string) (map[string]task.Result, error) {
	var (
		mu      sync.Mutex
		results = make(map[string]task.Result, len(names))
		eg      errgroup.Group
	)
	for _, name := range names {
		t, _ := e.plan.Task(name)
		eg.Go(func() error {
			res, err := e.execute(ctx, t)
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return err
		})
	}
	err := eg.Wait()
	return results, err
}

// execute injects dependency outputs into t, runs it and records the result.
func (e *Executor) execute(ctx context.Context, t *task.Task) (task.Result, error) {
	logger := ctxlog.FromContext(ctx).With("task", t.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	deps := t.Dependencies()
	outputs := make(map[string]cty.Value, len(deps))
	for _, d := range deps {
		if res, ok := e.store.Result(ctx, d); ok {
			outputs[d] = res.Output
		}
	}
	t.Prepare(outputs, deps)

	logger.Debug("Dispatching task.", "kind", t.Kind, "dependencies", deps)
	if err := e.store.SetState(ctx, t.Name, task.StateRunning); err != nil {
		return task.Failed(err), &StoreError{Op: "set state", Name: t.Name, Err: err}
	}
	res := t.Execute(ctx)
	logResult(logger, res)

	if err := e.store.SetResult(ctx, t.Name, res); err != nil {
		return res, &StoreError{Op: "set result", Name: t.Name, Err: err}
	}
	if err := e.store.SetState(ctx, t.Name, t.State()); err != nil {
		return res, &StoreError{Op: "set state", Name: t.Name, Err: err}
	}
	return res, nil
}
