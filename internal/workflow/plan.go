package workflow

import (
	"github.com/vk/taskgrid/internal/executor"
	"github.com/vk/taskgrid/internal/group"
	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

// runPlan is the view of a Workflow handed to the executor. Tasks it creates
// are marked as derived so the next run can discard them.
type runPlan struct {
	w *Workflow
}

var _ executor.Plan = runPlan{}

func (p runPlan) Tasks() []*task.Task { return p.w.GetAllTasks() }

func (p runPlan) Task(name string) (*task.Task, bool) {
	t, err := p.w.GetTask(name)
	return t, err == nil
}

func (p runPlan) Groups() []*group.Group { return p.w.GetAllTaskGroups() }

func (p runPlan) CreateTask(typeName, name string, config map[string]cty.Value) (*task.Task, error) {
	return p.w.create(name, true, func() (*task.Task, error) {
		return p.w.registry.CreateTask(typeName, name, config)
	})
}
