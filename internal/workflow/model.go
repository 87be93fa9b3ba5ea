package workflow

import (
	"fmt"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/group"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
)

// FromModel builds a workflow from a loaded definition.
func FromModel(model *config.Model, reg *registry.Registry, opts ...Option) (*Workflow, error) {
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workflow %q: %w", model.Name, err)
	}
	w, err := New(model.Name, reg, opts...)
	if err != nil {
		return nil, err
	}

	// Groups first so that task names colliding with a group are reported
	// as conflicts.
	for _, g := range model.Groups {
		_, err := w.AddTaskGroup(g.Name, group.Config{
			Type:           g.Type,
			ForEach:        g.ForEach,
			ConfigTemplate: g.Config,
			MaxConcurrent:  g.MaxConcurrent,
			AllowPartial:   g.AllowPartial,
		})
		if err != nil {
			return nil, err
		}
	}

	for _, def := range model.Tasks {
		var (
			t   *task.Task
			err error
		)
		if def.Function != "" {
			t, err = w.CreateFunctionTask(def.Function, def.Name, def.Config)
		} else {
			t, err = w.CreateTask(def.Type, def.Name, def.Config)
		}
		if err != nil {
			return nil, err
		}
		t.Timeout = def.Timeout
		t.AddDependency(def.DependsOn...)
	}
	return w, nil
}
