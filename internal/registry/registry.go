package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrUnknownType is returned when creating a task of an unregistered type.
	ErrUnknownType = errors.New("unknown task type")
	// ErrUnknownFunction is returned when creating a task from an unregistered function.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrDuplicateFunction is returned when a function name is registered twice.
	ErrDuplicateFunction = errors.New("function already registered")
	// ErrInvalidConfig is returned when a config does not satisfy a type's inputs.
	ErrInvalidConfig = errors.New("invalid task config")
)

// Module is the interface that all task-type modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Factory builds the runner for one task from its (validated) config.
type Factory func(config map[string]cty.Value) (task.Runner, error)

// RegisteredType is a task type: its factory and the inputs it accepts.
type RegisteredType struct {
	Factory Factory
	// Inputs declares the config keys the type understands. A nil map
	// disables checking and passes the config through untouched.
	Inputs map[string]*InputSpec
}

// Registry holds the task types and functions available to one workflow.
type Registry struct {
	mu        sync.RWMutex
	types     map[string]*RegisteredType
	functions map[string]task.Runner
}

// New creates a registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{
		types:     make(map[string]*RegisteredType),
		functions: make(map[string]task.Runner),
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterType registers a task type. Registering the same name twice is a
// programming error and panics.
func (r *Registry) RegisterType(name string, rt *RegisteredType) {
	if name == "" || rt == nil || rt.Factory == nil {
		panic(fmt.Sprintf("task type %q registered without a factory", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[name]; exists {
		panic(fmt.Sprintf("task type with name '%s' already registered", name))
	}
	slog.Debug("Registering task type.", "type", name, "inputs", len(rt.Inputs))
	r.types[name] = rt
}

// RegisterRunner registers a task type whose tasks all share runner.
func (r *Registry) RegisterRunner(name string, runner task.Runner, inputs map[string]*InputSpec) {
	r.RegisterType(name, &RegisteredType{
		Factory: func(map[string]cty.Value) (task.Runner, error) { return runner, nil },
		Inputs:  inputs,
	})
}

// RegisterFunction registers a named function that tasks can be created from.
func (r *Registry) RegisterFunction(name string, fn task.Runner) error {
	if name == "" || fn == nil {
		return fmt.Errorf("function %q: name and runner are required", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFunction, name)
	}
	slog.Debug("Registering function.", "function", name)
	r.functions[name] = fn
	return nil
}

// CreateTask builds a task of the named type.
func (r *Registry) CreateTask(typeName, name string, config map[string]cty.Value) (*task.Task, error) {
	r.mu.RLock()
	rt, ok := r.types[typeName]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (task %q)", ErrUnknownType, typeName, name)
	}

	cfg, err := applyInputs(typeName, rt.Inputs, config)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", name, err)
	}
	runner, err := rt.Factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("task %q: creating %s runner: %w", name, typeName, err)
	}
	return task.New(name, typeName, runner, cfg), nil
}

// CreateFunctionTask builds a task backed by a registered function.
func (r *Registry) CreateFunctionTask(fnName, name string, config map[string]cty.Value) (*task.Task, error) {
	r.mu.RLock()
	fn, ok := r.functions[fnName]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (task %q)", ErrUnknownFunction, fnName, name)
	}
	return task.New(name, fnName, fn, config), nil
}

// HasType reports whether a task type is registered.
func (r *Registry) HasType(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[name]
	return ok
}

// HasFunction reports whether a function is registered.
func (r *Registry) HasFunction(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.functions[name]
	return ok
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.types)
}

// Functions returns the registered function names, sorted.
func (r *Registry) Functions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.functions)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
