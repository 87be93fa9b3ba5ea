// Package count provides a task type that counts words, characters and
// lines of a text.
package count

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input names the text to count. Without Text, the value at Source in the
// dependency outputs is used.
type Input struct {
	Text   string `cty:"text"`
	Source string `cty:"source"`
}

var inputs = map[string]*registry.InputSpec{
	"text":   registry.Optional(cty.String, cty.StringVal("")),
	"source": registry.Optional(cty.String, cty.StringVal("prev.content")),
}

// OnRunCount is the handler for the 'count' task type.
func OnRunCount(_ context.Context, deps *task.Input, input *Input) (cty.Value, error) {
	text, err := resolveText(deps, input.Text, input.Source)
	if err != nil {
		return cty.NilVal, err
	}

	lineCount := 0
	if text != "" {
		lineCount = len(strings.Split(strings.TrimSuffix(text, "\n"), "\n"))
	}
	return cty.ObjectVal(map[string]cty.Value{
		"word_count": cty.NumberIntVal(int64(len(strings.Fields(text)))),
		"char_count": cty.NumberIntVal(int64(utf8.RuneCountInString(text))),
		"line_count": cty.NumberIntVal(int64(lineCount)),
		"content":    cty.StringVal(text),
		"timestamp":  cty.StringVal(time.Now().Format(time.RFC3339)),
	}), nil
}

func resolveText(deps *task.Input, text, source string) (string, error) {
	if text != "" {
		return text, nil
	}
	v, err := deps.Output(source)
	if err != nil {
		return "", fmt.Errorf("no text to count: %w", err)
	}
	return value.String(v), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "count", inputs, OnRunCount)
}
