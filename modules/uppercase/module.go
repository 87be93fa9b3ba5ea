// Package uppercase provides a task type that upper-cases text.
package uppercase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input names the text to transform. Without Text, the value at Source in
// the dependency outputs is used.
type Input struct {
	Text   string `cty:"text"`
	Source string `cty:"source"`
}

var inputs = map[string]*registry.InputSpec{
	"text":   registry.Optional(cty.String, cty.StringVal("")),
	"source": registry.Optional(cty.String, cty.StringVal("prev.content")),
}

// OnRunUppercase is the handler for the 'uppercase' task type.
func OnRunUppercase(_ context.Context, deps *task.Input, input *Input) (cty.Value, error) {
	text := input.Text
	if text == "" {
		v, err := deps.Output(input.Source)
		if err != nil {
			return cty.NilVal, fmt.Errorf("no text to transform: %w", err)
		}
		text = value.String(v)
	}

	upper := strings.ToUpper(text)
	return cty.ObjectVal(map[string]cty.Value{
		"content":        cty.StringVal(upper),
		"processed_text": cty.StringVal(upper),
		"timestamp":      cty.StringVal(time.Now().Format(time.RFC3339)),
	}), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "uppercase", inputs, OnRunUppercase)
}
