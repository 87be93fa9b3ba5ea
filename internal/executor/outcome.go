package executor

import (
	"errors"
	"fmt"

	"github.com/vk/taskgrid/internal/task"
)

// ErrUnresolved is returned, when requested through Options, if a drained run
// left tasks that could never become ready.
var ErrUnresolved = errors.New("tasks left unresolved")

// StoreError reports a write to the run state store that failed. The run
// halts on the first one, since the scheduler can no longer trust the
// completed set.
type StoreError struct {
	Op   string
	Name string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Termination says how a run ended.
type Termination int

const (
	// Drained means no task was ready any more.
	Drained Termination = iota
	// Halted means a task or task group failed, a store write failed or the
	// context ended, and no further work started.
	Halted
)

func (t Termination) String() string {
	if t == Halted {
		return "halted"
	}
	return "drained"
}

// Outcome is everything a run produced.
type Outcome struct {
	RunID       string
	Termination Termination
	// HaltedBy names the task or group whose failure halted the run. It is
	// empty when the context ended between rounds.
	HaltedBy string
	// Results holds one entry per executed task, derived task and expanded group.
	Results map[string]task.Result
	// Unattempted lists the tasks and groups that never ran, sorted.
	Unattempted []string
	Rounds      int
}

// Succeeded reports whether the run drained with every result successful
// and nothing left unattempted.
func (o *Outcome) Succeeded() bool {
	if o == nil || o.Termination != Drained || len(o.Unattempted) > 0 {
		return false
	}
	for _, r := range o.Results {
		if !r.Success {
			return false
		}
	}
	return true
}

// Failed returns the names of failed results.
func (o *Outcome) Failed() []string {
	var out []string
	for name, r := range o.Results {
		if !r.Success {
			out = append(out, name)
		}
	}
	return sortStrings(out)
}
