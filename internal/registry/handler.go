package registry

import (
	"context"
	"fmt"

	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HandlerFunc is a typed task handler. deps gives access to the outputs of
// the task's dependencies; input is the task config decoded into I.
type HandlerFunc[I any] func(ctx context.Context, deps *task.Input, input *I) (cty.Value, error)

// RegisterHandler registers a task type whose config is decoded into I
// using its `cty` field tags. Every tagged field must be covered by inputs,
// either as a required key or with a default.
func RegisterHandler[I any](r *Registry, name string, inputs map[string]*InputSpec, fn HandlerFunc[I]) {
	r.RegisterType(name, &RegisteredType{
		Inputs: inputs,
		Factory: func(config map[string]cty.Value) (task.Runner, error) {
			input := new(I)
			if err := Decode(config, input); err != nil {
				return nil, err
			}
			return task.RunnerFunc(func(ctx context.Context, deps *task.Input) (cty.Value, error) {
				return fn(ctx, deps, input)
			}), nil
		},
	})
}

// Decode populates target, a pointer to a struct with `cty` tags, from a
// task config.
func Decode(config map[string]cty.Value, target any) error {
	obj := cty.EmptyObjectVal
	if len(config) > 0 {
		obj = cty.ObjectVal(config)
	}
	if err := gocty.FromCtyValue(obj, target); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
