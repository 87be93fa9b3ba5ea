// Package print provides a task type that writes values to an output stream.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package. Out
// defaults to os.Stdout.
type Module struct {
	Out io.Writer
}

// Input defines the config of the print task.
type Input struct {
	// Value is printed when set; otherwise the first dependency's output is.
	Value  cty.Value `cty:"value"`
	Prefix string    `cty:"prefix"`
}

var inputs = map[string]*registry.InputSpec{
	"value":  registry.Optional(cty.DynamicPseudoType, cty.NullVal(cty.DynamicPseudoType)),
	"prefix": registry.Optional(cty.String, cty.StringVal("      ")),
}

// OnRunPrint writes one "key = value" line per attribute, keys sorted, or a
// single line for non-object values.
func (m *Module) OnRunPrint(ctx context.Context, deps *task.Input, input *Input) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Printing input")

	v := input.Value
	if v.IsNull() {
		if prev, err := deps.Output("prev"); err == nil {
			v = prev
		}
	}

	var b strings.Builder
	switch {
	case v == cty.NilVal || v.IsNull():
		fmt.Fprintf(&b, "%s(null)\n", input.Prefix)
	case value.IsMapping(v):
		attrs := value.Attributes(v)
		for _, k := range value.Keys(v) {
			fmt.Fprintf(&b, "%s%s = %s\n", input.Prefix, k, quote(attrs[k]))
		}
	default:
		fmt.Fprintf(&b, "%s%s\n", input.Prefix, value.String(v))
	}

	if _, err := io.WriteString(m.out(), b.String()); err != nil {
		return cty.NilVal, fmt.Errorf("writing output: %w", err)
	}
	return cty.ObjectVal(map[string]cty.Value{
		"printed": cty.StringVal(b.String()),
	}), nil
}

func quote(v cty.Value) string {
	if v.Type() == cty.String && v.IsKnown() && !v.IsNull() {
		return fmt.Sprintf("%q", v.AsString())
	}
	return value.String(v)
}

func (m *Module) out() io.Writer {
	if m.Out == nil {
		return os.Stdout
	}
	return m.Out
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "print", inputs, m.OnRunPrint)
}
