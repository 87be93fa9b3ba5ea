package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/taskgrid/internal/dag"
	"github.com/vk/taskgrid/internal/executor"
)

var (
	// ErrCycle is returned by Validate for cyclic dependencies.
	ErrCycle = dag.ErrCycle
	// ErrMissingDependency is returned by Validate for dependencies on unknown names.
	ErrMissingDependency = errors.New("dependency on unknown task or group")
)

// Validate reports cycles and dependencies on names that are neither tasks
// nor groups. Run does not require a valid workflow: such tasks simply never
// become ready.
func (w *Workflow) Validate() error {
	graph := executor.Graph(runPlan{w: w})
	w.mu.Lock()
	w.graph = graph
	w.mu.Unlock()

	var errs []error
	for name, missing := range graph.Missing() {
		errs = append(errs, fmt.Errorf("%w: %q depends on %s", ErrMissingDependency, name, strings.Join(missing, ", ")))
	}
	if err := graph.DetectCycles(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
