package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/dag"
	"github.com/vk/taskgrid/internal/executor"
	"github.com/vk/taskgrid/internal/group"
	"github.com/vk/taskgrid/internal/inmemorystore"
	"github.com/vk/taskgrid/internal/nodestore"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrNilRegistry is returned by New when no registry is supplied.
	ErrNilRegistry = errors.New("workflow requires a registry")
	// ErrDuplicateTask is returned when a task name is already used by a task.
	ErrDuplicateTask = errors.New("task already exists")
	// ErrDuplicateGroup is returned when a group name is already used by a group.
	ErrDuplicateGroup = errors.New("task group already exists")
	// ErrNameConflict is returned when a task and a group would share a name.
	ErrNameConflict = errors.New("name already used by another task or group")
	// ErrNotFound is returned by lookups of unknown names.
	ErrNotFound = errors.New("not found")
	// ErrNoOutput is returned for tasks and groups that have not produced output yet.
	ErrNoOutput = errors.New("no output available")
	// ErrRunning is returned when Run is called while a run is in progress.
	ErrRunning = errors.New("workflow is already running")
)

// Option configures a Workflow.
type Option func(*Workflow)

// WithExecutorOptions sets the options passed to the executor on every run.
func WithExecutorOptions(opts executor.Options) Option {
	return func(w *Workflow) { w.execOpts = opts }
}

// WithStoreFactory replaces the per-run store constructor.
func WithStoreFactory(f func() nodestore.Store) Option {
	return func(w *Workflow) { w.newStore = f }
}

// Workflow is the aggregate root for tasks, groups and their execution.
type Workflow struct {
	name     string
	registry *registry.Registry
	execOpts executor.Options
	newStore func() nodestore.Store

	mu         sync.RWMutex
	tasks      map[string]*task.Task
	taskOrder  []string
	derived    map[string]bool
	groups     map[string]*group.Group
	groupOrder []string
	graph      *dag.Graph
	running    bool
	lastRun    *executor.Outcome
}

// New creates an empty workflow using reg to create tasks.
func New(name string, reg *registry.Registry, opts ...Option) (*Workflow, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	w := &Workflow{
		name:     name,
		registry: reg,
		newStore: func() nodestore.Store { return inmemorystore.New() },
		tasks:    make(map[string]*task.Task),
		derived:  make(map[string]bool),
		groups:   make(map[string]*group.Group),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Name returns the workflow's name.
func (w *Workflow) Name() string { return w.name }

// Registry returns the registry the workflow creates tasks with.
func (w *Workflow) Registry() *registry.Registry { return w.registry }

// AddTask adds an existing task to the workflow.
func (w *Workflow) AddTask(t *task.Task) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("task must have a name")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addTaskLocked(t, false)
}

func (w *Workflow) addTaskLocked(t *task.Task, derived bool) error {
	if _, ok := w.tasks[t.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, t.Name)
	}
	if _, ok := w.groups[t.Name]; ok {
		return fmt.Errorf("%w: %q is a task group", ErrNameConflict, t.Name)
	}
	w.tasks[t.Name] = t
	w.taskOrder = append(w.taskOrder, t.Name)
	if derived {
		w.derived[t.Name] = true
	}
	return nil
}

// AddTaskGroup registers a task group.
func (w *Workflow) AddTaskGroup(name string, cfg group.Config, opts ...group.Option) (*group.Group, error) {
	g, err := group.New(name, cfg, opts...)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.groups[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateGroup, name)
	}
	if _, ok := w.tasks[name]; ok {
		return nil, fmt.Errorf("%w: %q is a task", ErrNameConflict, name)
	}
	w.groups[name] = g
	w.groupOrder = append(w.groupOrder, name)
	return g, nil
}

// RegisterFunction makes fn available to CreateFunctionTask.
func (w *Workflow) RegisterFunction(name string, fn task.Runner) error {
	return w.registry.RegisterFunction(name, fn)
}

// CreateTask creates a task of a registered type and adds it to the workflow.
func (w *Workflow) CreateTask(typeName, name string, config map[string]cty.Value) (*task.Task, error) {
	return w.create(name, false, func() (*task.Task, error) {
		return w.registry.CreateTask(typeName, name, config)
	})
}

// CreateFunctionTask creates a task backed by a registered function and adds
// it to the workflow.
func (w *Workflow) CreateFunctionTask(fnName, name string, config map[string]cty.Value) (*task.Task, error) {
	return w.create(name, false, func() (*task.Task, error) {
		return w.registry.CreateFunctionTask(fnName, name, config)
	})
}

func (w *Workflow) create(name string, derived bool, build func() (*task.Task, error)) (*task.Task, error) {
	if err := w.checkFree(name); err != nil {
		return nil, err
	}
	t, err := build()
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.addTaskLocked(t, derived); err != nil {
		return nil, err
	}
	return t, nil
}

func (w *Workflow) checkFree(name string) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, ok := w.tasks[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, name)
	}
	if _, ok := w.groups[name]; ok {
		return fmt.Errorf("%w: %q is a task group", ErrNameConflict, name)
	}
	return nil
}

// AddDependency makes the named task depend on deps.
func (w *Workflow) AddDependency(name string, deps ...string) error {
	t, err := w.GetTask(name)
	if err != nil {
		return err
	}
	t.AddDependency(deps...)
	return nil
}

// GetTask returns the named task, including tasks derived by groups.
func (w *Workflow) GetTask(name string) (*task.Task, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.tasks[name]
	if !ok {
		return nil, fmt.Errorf("task %q: %w", name, ErrNotFound)
	}
	return t, nil
}

// GetTaskGroup returns the named group.
func (w *Workflow) GetTaskGroup(name string) (*group.Group, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	g, ok := w.groups[name]
	if !ok {
		return nil, fmt.Errorf("task group %q: %w", name, ErrNotFound)
	}
	return g, nil
}

// GetAllTasks returns every task in insertion order.
func (w *Workflow) GetAllTasks() []*task.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*task.Task, 0, len(w.taskOrder))
	for _, n := range w.taskOrder {
		out = append(out, w.tasks[n])
	}
	return out
}

// GetAllTaskGroups returns every group in insertion order.
func (w *Workflow) GetAllTaskGroups() []*group.Group {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*group.Group, 0, len(w.groupOrder))
	for _, n := range w.groupOrder {
		out = append(out, w.groups[n])
	}
	return out
}

// GetTaskOutput returns the last output of a task or the aggregated output
// of a group.
func (w *Workflow) GetTaskOutput(name string) (cty.Value, error) {
	w.mu.RLock()
	t, isTask := w.tasks[name]
	g, isGroup := w.groups[name]
	w.mu.RUnlock()

	switch {
	case isTask:
		if out, ok := t.Output(); ok {
			return out, nil
		}
	case isGroup:
		if out, ok := g.Output(); ok {
			return out, nil
		}
	default:
		return cty.NilVal, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return cty.NilVal, fmt.Errorf("%q: %w", name, ErrNoOutput)
}

// Graph returns the dependency graph built by the last Run or Validate.
func (w *Workflow) Graph() *dag.Graph {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.graph
}

// LastRun returns the outcome of the most recent run.
func (w *Workflow) LastRun() *executor.Outcome {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastRun
}

// Run executes the workflow. Tasks derived by a previous run are discarded
// and every group may expand again.
func (w *Workflow) Run(ctx context.Context) (*executor.Outcome, error) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil, ErrRunning
	}
	w.running = true
	w.resetLocked()
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	logger := ctxlog.FromContext(ctx).With("workflow", w.name)
	ctx = ctxlog.WithLogger(ctx, logger)

	plan := runPlan{w: w}
	graph := executor.Graph(plan)
	w.mu.Lock()
	w.graph = graph
	w.mu.Unlock()

	outcome, err := executor.New(plan, w.newStore(), w.execOpts).Run(ctx)

	w.mu.Lock()
	w.lastRun = outcome
	w.mu.Unlock()
	return outcome, err
}

func (w *Workflow) resetLocked() {
	if len(w.derived) > 0 {
		w.taskOrder = slices.DeleteFunc(w.taskOrder, func(n string) bool { return w.derived[n] })
		for n := range w.derived {
			delete(w.tasks, n)
		}
		w.derived = make(map[string]bool)
	}
	for _, t := range w.tasks {
		t.Reset()
	}
	for _, g := range w.groups {
		g.Reset()
	}
}
