package task

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// DependencyResolved announces that a dependency finished with the given
// output. Task groups deliver these to the tasks that depend on them.
type DependencyResolved struct {
	Name   string
	Output cty.Value
}

// Task is a named unit of work with ordered dependencies.
type Task struct {
	// Name is unique within a workflow.
	Name string
	// Kind is the task type or function name the task was created from.
	Kind string
	// Config is the task's configuration as given at creation.
	Config map[string]cty.Value
	// Timeout bounds a single execution. Zero means no deadline.
	Timeout time.Duration

	runner Runner
	state  atomic.Int32

	mu                sync.Mutex
	dependencies      []string
	inbox             []DependencyResolved
	dependencyOutputs map[string]cty.Value
	dependencyOrder   []string
	last              *Result
}

// New creates a task backed by runner.
func New(name, kind string, runner Runner, config map[string]cty.Value) *Task {
	if config == nil {
		config = map[string]cty.Value{}
	}
	return &Task{Name: name, Kind: kind, Config: config, runner: runner}
}

// AddDependency appends names to the task's dependency list, keeping the
// declared order and ignoring repeats.
func (t *Task) AddDependency(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, n := range names {
		if n == "" || slices.Contains(t.dependencies, n) {
			continue
		}
		t.dependencies = append(t.dependencies, n)
	}
}

// Dependencies returns a copy of the declared dependency names in order.
func (t *Task) Dependencies() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.dependencies)
}

// Deliver queues a dependency-resolved event. Events are consumed by the
// next Prepare.
func (t *Task) Deliver(ev DependencyResolved) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inbox = append(t.inbox, ev)
}

// Prepare sets the dependency outputs and order for the next execution.
// Queued events are merged in; a delivered name missing from order is
// appended to it.
func (t *Task) Prepare(outputs map[string]cty.Value, order []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	merged := make(map[string]cty.Value, len(outputs)+len(t.inbox))
	maps.Copy(merged, outputs)
	seq := slices.Clone(order)
	for _, ev := range t.inbox {
		merged[ev.Name] = ev.Output
		if !slices.Contains(seq, ev.Name) {
			seq = append(seq, ev.Name)
		}
	}
	t.inbox = nil
	t.dependencyOutputs = merged
	t.dependencyOrder = seq
}

// DependencyOutputs returns the outputs injected by the last Prepare.
func (t *Task) DependencyOutputs() map[string]cty.Value {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.dependencyOutputs)
}

// DependencyOrder returns the dependency order injected by the last Prepare.
func (t *Task) DependencyOrder() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.dependencyOrder)
}

// State returns the task's current execution state.
func (t *Task) State() State {
	return State(t.state.Load())
}

// SetState records the task's execution state.
func (t *Task) SetState(s State) {
	t.state.Store(int32(s))
}

// LastResult returns the result of the most recent execution.
func (t *Task) LastResult() (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return Result{}, false
	}
	return *t.last, true
}

// Output returns the output of the most recent execution.
func (t *Task) Output() (cty.Value, bool) {
	res, ok := t.LastResult()
	if !ok {
		return cty.NilVal, false
	}
	return res.Output, true
}

// Reset clears the state left by previous executions.
func (t *Task) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inbox = nil
	t.dependencyOutputs = nil
	t.dependencyOrder = nil
	t.last = nil
	t.state.Store(int32(StatePending))
}

type runOutcome struct {
	out cty.Value
	err error
}

// Execute runs the task once and always returns a Result. Runner errors,
// panics and deadline overruns all become failed results. A runner that
// ignores its context after the deadline is abandoned.
func (t *Task) Execute(ctx context.Context) Result {
	t.SetState(StateRunning)
	start := time.Now()
	res := t.execute(ctx).stamped(start)

	t.mu.Lock()
	t.last = &res
	t.mu.Unlock()
	if res.Success {
		t.SetState(StateDone)
	} else {
		t.SetState(StateFailed)
	}
	return res
}

func (t *Task) execute(ctx context.Context) Result {
	if t.runner == nil {
		return Failed(fmt.Errorf("task %q has no runner", t.Name))
	}

	runCtx := ctx
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	in := t.input()
	done := make(chan runOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- runOutcome{err: fmt.Errorf("%w: %v", ErrPanic, r)}
			}
		}()
		out, err := t.runner.Run(runCtx, in)
		done <- runOutcome{out: out, err: err}
	}()

	var o runOutcome
	select {
	case o = <-done:
	case <-runCtx.Done():
		o.err = runCtx.Err()
	}

	if o.err != nil {
		if t.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return Failed(fmt.Errorf("%w after %s: %w", ErrTimeout, t.Timeout, o.err))
		}
		return Failed(o.err)
	}
	return Succeeded(o.out)
}

func (t *Task) input() *Input {
	t.mu.Lock()
	defer t.mu.Unlock()
	outputs := maps.Clone(t.dependencyOutputs)
	if outputs == nil {
		outputs = map[string]cty.Value{}
	}
	return &Input{
		Name:              t.Name,
		Config:            maps.Clone(t.Config),
		DependencyOutputs: outputs,
		DependencyOrder:   slices.Clone(t.dependencyOrder),
	}
}
