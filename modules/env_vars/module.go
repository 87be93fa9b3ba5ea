// Package env_vars provides a task type exposing the process environment.
package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input selects which variables are exposed.
type Input struct {
	Prefix      string `cty:"prefix"`
	StripPrefix bool   `cty:"strip_prefix"`
}

var inputs = map[string]*registry.InputSpec{
	"prefix":       registry.Optional(cty.String, cty.StringVal("")),
	"strip_prefix": registry.Optional(cty.Bool, cty.False),
}

// OnRunEnvVars is the handler for the 'env_vars' task type.
func OnRunEnvVars(ctx context.Context, _ *task.Input, input *Input) (cty.Value, error) {
	envMap := make(map[string]string)
	for _, e := range os.Environ() {
		key, val, ok := strings.Cut(e, "=")
		if !ok || !strings.HasPrefix(key, input.Prefix) {
			continue
		}
		if input.StripPrefix {
			key = strings.TrimPrefix(key, input.Prefix)
		}
		if key != "" {
			envMap[key] = val
		}
	}
	ctxlog.FromContext(ctx).Debug("Collected environment variables.", "prefix", input.Prefix, "count", len(envMap))

	all, err := value.FromGo(envMap)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.ObjectVal(map[string]cty.Value{
		"all":   all,
		"count": cty.NumberIntVal(int64(len(envMap))),
	}), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "env_vars", inputs, OnRunEnvVars)
}
