package task

// State is the execution state of a task within a run.
type State int32

const (
	// StatePending indicates the task is waiting for its dependencies to complete.
	StatePending State = iota
	// StateRunning indicates the task is currently executing.
	StateRunning
	// StateDone indicates the task finished successfully.
	StateDone
	// StateFailed indicates the task finished with an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
