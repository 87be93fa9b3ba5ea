package task

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Runner performs the work of a task. The returned value should be an
// object; any other value is wrapped as {"value": v}.
type Runner interface {
	Run(ctx context.Context, in *Input) (cty.Value, error)
}

// RunnerFunc adapts an ordinary function to the Runner interface.
type RunnerFunc func(ctx context.Context, in *Input) (cty.Value, error)

// Run calls f(ctx, in).
func (f RunnerFunc) Run(ctx context.Context, in *Input) (cty.Value, error) {
	return f(ctx, in)
}
