// Package sleep provides a task type that waits, for timeout and
// concurrency demonstrations.
package sleep

import (
	"context"
	"time"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the config of a sleep task.
type Input struct {
	Seconds float64 `cty:"seconds"`
}

var inputs = map[string]*registry.InputSpec{
	"seconds": registry.Optional(cty.Number, cty.NumberIntVal(1)),
}

// OnRunSleep waits for the configured duration or until ctx is done.
func OnRunSleep(ctx context.Context, _ *task.Input, input *Input) (cty.Value, error) {
	d := time.Duration(input.Seconds * float64(time.Second))
	ctxlog.FromContext(ctx).Debug("Sleeping.", "duration", d)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return cty.ObjectVal(map[string]cty.Value{
			"slept_seconds": cty.NumberFloatVal(input.Seconds),
		}), nil
	case <-ctx.Done():
		return cty.NilVal, ctx.Err()
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "sleep", inputs, OnRunSleep)
}
