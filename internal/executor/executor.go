package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/dag"
	"github.com/vk/taskgrid/internal/group"
	"github.com/vk/taskgrid/internal/nodestore"
	"github.com/vk/taskgrid/internal/scheduler"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/value"
)

// Plan is what the executor runs: the tasks and groups of a workflow and the
// factory used to create derived tasks.
type Plan interface {
	group.Factory
	// Tasks returns the tasks present at the start of the run.
	Tasks() []*task.Task
	// Task looks up a task by name, including derived tasks.
	Task(name string) (*task.Task, bool)
	// Groups returns the task groups.
	Groups() []*group.Group
}

// Options tunes a run.
type Options struct {
	// FailOnUnresolved makes Run return ErrUnresolved when the run drained
	// with tasks that never became ready.
	FailOnUnresolved bool
}

// Executor runs a Plan against a store.
type Executor struct {
	plan  Plan
	store nodestore.Store
	opts  Options
}

// New creates an executor. The store should be fresh for every run.
func New(plan Plan, store nodestore.Store, opts Options) *Executor {
	return &Executor{plan: plan, store: store, opts: opts}
}

// Graph builds the dependency graph of the plan: one node per task and one
// per group, the latter depending on its trigger task.
func Graph(plan Plan) *dag.Graph {
	g := dag.New()
	for _, t := range plan.Tasks() {
		g.AddNode(t.Name, t.Dependencies()...)
	}
	for _, grp := range plan.Groups() {
		g.AddNode(grp.Name(), grp.Trigger())
	}
	return g
}

// Run executes the plan until it drains or halts. The returned error is
// reserved for structural problems; task failures are reported through the
// Outcome. A failed store write or a context that ends between rounds halts
// the run and is returned together with the outcome so far.
func (e *Executor) Run(ctx context.Context) (*Outcome, error) {
	runID := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)

	graph := Graph(e.plan)
	sched := scheduler.New(graph)
	outcome := &Outcome{RunID: runID, Termination: Drained}
	expanded := make(map[string]bool)

	logger.Info("🚀 Starting run.", "tasks", len(e.plan.Tasks()), "groups", len(e.plan.Groups()))

	for {
		if err := ctx.Err(); err != nil {
			return e.abort(ctx, graph, outcome, fmt.Errorf("run stopped before round %d: %w", outcome.Rounds+1, err))
		}
		ready := e.dispatchable(sched.Ready(ctx, e.store))
		if len(ready) == 0 {
			break
		}
		outcome.Rounds++
		logger.Info("Executing round.", "round", outcome.Rounds, "tasks", ready)

		results, err := e.runRound(ctx, ready)
		if err != nil {
			return e.abort(ctx, graph, outcome, err)
		}

		halted, err := e.processRound(ctx, graph, ready, results, expanded, outcome)
		if err != nil {
			return e.abort(ctx, graph, outcome, err)
		}
		if halted {
			break
		}
	}

	e.finish(ctx, graph, outcome)
	if outcome.Termination == Halted {
		logger.Warn("🛑 Run halted.", "failed", outcome.HaltedBy, "rounds", outcome.Rounds)
		return outcome, nil
	}

	logger.Info("🏁 Run drained.", "rounds", outcome.Rounds, "results", len(outcome.Results), "unattempted", len(outcome.Unattempted))
	if len(outcome.Unattempted) > 0 {
		logger.Warn("Some tasks never became ready.", "unattempted", outcome.Unattempted)
		if e.opts.FailOnUnresolved {
			return outcome, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(outcome.Unattempted, ", "))
		}
	}
	return outcome, nil
}

// dispatchable keeps the ready names that are tasks. Group nodes complete
// only through expansion.
func (e *Executor) dispatchable(ready []string) []string {
	out := ready[:0:0]
	for _, name := range ready {
		if _, ok := e.plan.Task(name); ok {
			out = append(out, name)
		}
	}
	return out
}

// processRound applies the round's results in ready order. It reports
// whether the run halted.
func (e *Executor) processRound(ctx context.Context, graph *dag.Graph, ready []string, results map[string]task.Result, expanded map[string]bool, outcome *Outcome) (bool, error) {
	for _, name := range ready {
		res := results[name]
		if err := e.store.MarkCompleted(ctx, name); err != nil {
			return true, &StoreError{Op: "mark completed", Name: name, Err: err}
		}

		if res.Success {
			failedGroup, err := e.expandTriggered(ctx, graph, name, res, expanded)
			if err != nil {
				outcome.Termination = Halted
				outcome.HaltedBy = failedGroup
				return true, err
			}
			if failedGroup != "" {
				outcome.Termination = Halted
				outcome.HaltedBy = failedGroup
				return true, nil
			}
			continue
		}

		outcome.Termination = Halted
		outcome.HaltedBy = name
		return true, nil
	}
	return false, nil
}

// abort halts the run on a structural error and returns what ran so far.
func (e *Executor) abort(ctx context.Context, graph *dag.Graph, outcome *Outcome, err error) (*Outcome, error) {
	outcome.Termination = Halted
	var se *StoreError
	if outcome.HaltedBy == "" && errors.As(err, &se) {
		outcome.HaltedBy = se.Name
	}
	e.finish(context.WithoutCancel(ctx), graph, outcome)
	ctxlog.FromContext(ctx).Error("🛑 Run aborted.", "error", err, "rounds", outcome.Rounds)
	return outcome, err
}

func (e *Executor) finish(ctx context.Context, graph *dag.Graph, outcome *Outcome) {
	outcome.Results = e.store.Results(ctx)
	var unattempted []string
	for _, name := range graph.Nodes() {
		if _, ran := e.store.Result(ctx, name); !ran && !e.store.IsCompleted(name) {
			unattempted = append(unattempted, name)
		}
	}
	outcome.Unattempted = sortStrings(unattempted)
}

// logResult expects a logger already scoped with the task name.
func logResult(logger *slog.Logger, res task.Result) {
	if res.Success {
		logger.Info("✅ Task succeeded.", "duration", res.Duration)
		logger.Debug("Task output.", "output", value.ForLog(res.Output))
		return
	}
	logger.Error("❌ Task failed.", "error_kind", res.ErrorKind(), "error", res.Err, "duration", res.Duration)
}

func sortStrings(s []string) []string {
	sort.Strings(s)
	return s
}
