// Package file_ops provides a task type that reads, writes and appends
// local files.
package file_ops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// ErrUnknownOperation is returned for operations other than read, write and append.
var ErrUnknownOperation = errors.New("unknown file operation")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the config of a file_ops task.
type Input struct {
	Operation string `cty:"operation"`
	FilePath  string `cty:"file_path"`
	// Content is written by write and append. When empty, write uses the
	// first dependency's "content" output.
	Content string `cty:"content"`
}

var inputs = map[string]*registry.InputSpec{
	"operation": registry.Optional(cty.String, cty.StringVal("read")),
	"file_path": registry.Required(cty.String),
	"content":   registry.Optional(cty.String, cty.StringVal("")),
}

// OnRunFileOps is the handler for the 'file_ops' task type.
func OnRunFileOps(ctx context.Context, deps *task.Input, input *Input) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("operation", input.Operation, "file_path", input.FilePath)

	var content string
	switch strings.ToLower(input.Operation) {
	case "read":
		data, err := os.ReadFile(input.FilePath)
		if err != nil {
			return cty.NilVal, fmt.Errorf("failed to read '%s': %w", input.FilePath, err)
		}
		content = string(data)

	case "write":
		content = input.Content
		if content == "" && len(deps.DependencyOrder) > 0 {
			prev, err := deps.Output("prev.content")
			if err != nil {
				return cty.NilVal, fmt.Errorf("no content to write: %w", err)
			}
			content = value.String(prev)
		}
		if err := os.WriteFile(input.FilePath, []byte(content), 0o644); err != nil {
			return cty.NilVal, fmt.Errorf("failed to write '%s': %w", input.FilePath, err)
		}

	case "append":
		content = input.Content
		f, err := os.OpenFile(input.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return cty.NilVal, fmt.Errorf("failed to open '%s': %w", input.FilePath, err)
		}
		_, werr := f.WriteString("\n" + content)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return cty.NilVal, fmt.Errorf("failed to append to '%s': %w", input.FilePath, werr)
		}

	default:
		return cty.NilVal, fmt.Errorf("%w: '%s'", ErrUnknownOperation, input.Operation)
	}

	logger.Info("File operation complete.", "bytes", len(content))
	return cty.ObjectVal(map[string]cty.Value{
		"operation": cty.StringVal(strings.ToLower(input.Operation)),
		"file_path": cty.StringVal(input.FilePath),
		"content":   cty.StringVal(content),
		"lines":     lines(content),
		"timestamp": cty.StringVal(time.Now().Format(time.RFC3339)),
	}), nil
}

func lines(content string) cty.Value {
	var out []cty.Value
	for _, l := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, cty.StringVal(l))
		}
	}
	if len(out) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(out)
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "file_ops", inputs, OnRunFileOps)
}
