// Package echo provides a task type that returns its config as output.
package echo

import (
	"context"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunEcho returns the task config unchanged. Group members therefore
// expose their rendered templates.
func OnRunEcho(ctx context.Context, deps *task.Input) (cty.Value, error) {
	out := value.Object(deps.Config)
	ctxlog.FromContext(ctx).Debug("Echoing config.", "keys", value.Keys(out))
	return out, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("echo", task.RunnerFunc(OnRunEcho), nil)
}
