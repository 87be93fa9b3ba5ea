package task

import (
	"errors"
	"time"

	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrTimeout marks a result whose runner did not finish before the task deadline.
	ErrTimeout = errors.New("task timed out")
	// ErrPanic marks a result whose runner panicked.
	ErrPanic = errors.New("task panicked")
)

// Result is the outcome of one execution of a task or of a task group batch.
type Result struct {
	Success    bool
	Output     cty.Value
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
}

// Succeeded returns a successful result carrying out.
func Succeeded(out cty.Value) Result {
	return Result{Success: true, Output: normalizeOutput(out)}
}

// Failed returns a failed result carrying err and an empty output.
func Failed(err error) Result {
	return Result{Success: false, Output: cty.EmptyObjectVal, Err: err}
}

// ErrorKind classifies a failed result for logs: "timeout" or "error".
// Successful results have no kind.
func (r Result) ErrorKind() string {
	switch {
	case r.Success:
		return ""
	case errors.Is(r.Err, ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}

// Error returns the failure message, or "" for successful results.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func (r Result) stamped(start time.Time) Result {
	r.StartedAt = start
	r.FinishedAt = time.Now()
	r.Duration = r.FinishedAt.Sub(start)
	return r
}

func normalizeOutput(out cty.Value) cty.Value {
	if out == cty.NilVal || out.IsNull() {
		return cty.EmptyObjectVal
	}
	ty := out.Type()
	if ty.IsObjectType() || ty.IsMapType() {
		return out
	}
	return cty.ObjectVal(map[string]cty.Value{"value": out})
}
