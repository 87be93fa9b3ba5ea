package group

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/nodeid"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/template"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/semaphore"
)

// ErrAlreadyExpanded is returned when a group is expanded twice without a Reset.
var ErrAlreadyExpanded = errors.New("task group already expanded")

// Factory creates derived tasks. Implementations are expected to reject
// names that are already taken.
type Factory interface {
	CreateTask(typeName, name string, config map[string]cty.Value) (*task.Task, error)
}

// ExpansionError reports a structural failure while expanding a group: the
// ForEach path could not be resolved to a list, or a derived task could not
// be created.
type ExpansionError struct {
	Group   string
	ForEach string
	Err     error
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("expanding task group %q over %q: %v", e.Group, e.ForEach, e.Err)
}

func (e *ExpansionError) Unwrap() error { return e.Err }

// Option configures a Group.
type Option func(*Group)

// WithAggregator replaces the default aggregation policy.
func WithAggregator(a Aggregator) Option {
	return func(g *Group) { g.aggregator = a }
}

// Group is the runtime instance of a task group.
type Group struct {
	name       string
	config     Config
	path       []nodeid.PathSegment
	aggregator Aggregator

	mu       sync.RWMutex
	expanded bool
	items    []cty.Value
	tasks    []*task.Task
	results  []ItemResult
	result   *task.Result
}

// New validates cfg and creates a group.
func New(name string, cfg Config, opts ...Option) (*Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	addr, err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("task group %q: %w", name, err)
	}
	g := &Group{
		name:       name,
		config:     cfg,
		path:       addr.Rest(),
		aggregator: DefaultAggregator{AllowPartial: cfg.AllowPartial},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Name returns the group's name.
func (g *Group) Name() string { return g.name }

// Config returns the group's config.
func (g *Group) Config() Config { return g.config }

// Trigger returns the name of the task whose completion expands the group.
func (g *Group) Trigger() string { return g.config.Trigger() }

// Expanded reports whether the group has been expanded since the last Reset.
func (g *Group) Expanded() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.expanded
}

// Items resolves the ForEach path against the trigger's output.
func (g *Group) Items(source cty.Value) ([]cty.Value, error) {
	v, err := value.Walk(source, g.path)
	if err != nil {
		return nil, err
	}
	items, err := value.List(v)
	if err != nil {
		return nil, &value.PathError{Path: nodeid.Join(g.path), Segment: g.path[len(g.path)-1].String(), Err: err}
	}
	return items, nil
}

// TaskName returns the name of the task derived for item.
func (g *Group) TaskName(item cty.Value) string {
	return g.name + "_" + value.String(item)
}

// CreateTasks derives one task per item through f.
func (g *Group) CreateTasks(f Factory, items []cty.Value) ([]*task.Task, error) {
	tasks := make([]*task.Task, 0, len(items))
	for _, item := range items {
		cfg := template.Render(g.config.ConfigTemplate, item)
		t, err := f.CreateTask(g.config.Type, g.TaskName(item), cfg)
		if err != nil {
			return tasks, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Expand resolves the items from the trigger output, creates the derived
// tasks, runs them and returns the aggregated result. Structural problems
// are returned as *ExpansionError; task failures only show up in the result.
// Tasks created before a creation failure are kept so the caller can account
// for them.
func (g *Group) Expand(ctx context.Context, f Factory, source cty.Value) (task.Result, error) {
	g.mu.Lock()
	if g.expanded {
		g.mu.Unlock()
		return task.Result{}, fmt.Errorf("%w: %s", ErrAlreadyExpanded, g.name)
	}
	g.expanded = true
	g.mu.Unlock()

	items, err := g.Items(source)
	if err != nil {
		return task.Result{}, &ExpansionError{Group: g.name, ForEach: g.config.ForEach, Err: err}
	}

	tasks, err := g.CreateTasks(f, items)
	g.mu.Lock()
	g.items = items
	g.tasks = tasks
	g.mu.Unlock()
	if err != nil {
		return task.Result{}, &ExpansionError{Group: g.name, ForEach: g.config.ForEach, Err: err}
	}

	ctxlog.FromContext(ctx).Info("Expanding task group.", "group", g.name, "items", len(items), "max_concurrent", g.config.limit())
	return g.Execute(ctx), nil
}

// Execute runs the derived tasks with at most MaxConcurrent in flight and
// aggregates their results.
func (g *Group) Execute(ctx context.Context) task.Result {
	g.mu.RLock()
	items := slices.Clone(g.items)
	tasks := slices.Clone(g.tasks)
	g.mu.RUnlock()

	start := time.Now()
	results := runBatch(ctx, g.config.limit(), items, tasks)
	res := g.aggregator.Aggregate(g.name, results)
	res.StartedAt = start
	res.FinishedAt = time.Now()
	res.Duration = res.FinishedAt.Sub(start)

	g.mu.Lock()
	g.results = results
	g.result = &res
	g.mu.Unlock()
	return res
}

func runBatch(ctx context.Context, limit int, items []cty.Value, tasks []*task.Task) []ItemResult {
	logger := ctxlog.FromContext(ctx)
	sem := semaphore.NewWeighted(int64(limit))
	results := make([]ItemResult, len(tasks))

	var wg sync.WaitGroup
	for i, t := range tasks {
		results[i] = ItemResult{Item: items[i], Task: t.Name}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].Result = task.Failed(err)
				return
			}
			defer sem.Release(1)

			t.Prepare(nil, nil)
			res := t.Execute(ctxlog.WithLogger(ctx, logger.With("task", t.Name)))
			if !res.Success {
				logger.Warn("Group task failed.", "task", t.Name, "error_kind", res.ErrorKind(), "error", res.Err)
			}
			results[i].Result = res
		}()
	}
	wg.Wait()
	return results
}

// Tasks returns the tasks derived by the last expansion.
func (g *Group) Tasks() []*task.Task {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.tasks)
}

// Results returns the per-item results of the last expansion.
func (g *Group) Results() []ItemResult {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.results)
}

// Result returns the aggregated result of the last expansion.
func (g *Group) Result() (task.Result, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.result == nil {
		return task.Result{}, false
	}
	return *g.result, true
}

// Output returns the aggregated output of the last expansion.
func (g *Group) Output() (cty.Value, bool) {
	res, ok := g.Result()
	if !ok {
		return cty.NilVal, false
	}
	return res.Output, true
}

// Reset forgets the last expansion so the group can expand again.
func (g *Group) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expanded = false
	g.items = nil
	g.tasks = nil
	g.results = nil
	g.result = nil
}
