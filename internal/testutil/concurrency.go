package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

// ErrRecorderFailed is returned by record tasks configured with fail = true.
var ErrRecorderFailed = errors.New("record task failed as configured")

// RecorderModule is a shared, self-contained module for integration tests.
// Its "record" task type sleeps for the configured seconds, records when it
// ran and tracks how many record tasks were in flight at once. It fails when
// fail is set or when value equals fail_on.
type RecorderModule struct {
	mu             sync.Mutex
	executionTimes map[string]*ExecutionRecord
	order          []string
	active         atomic.Int64
	peak           atomic.Int64
	completionChan chan<- string
}

// NewRecorderModule creates a recorder. completionChan, if not nil,
// receives the name of each task as it finishes.
func NewRecorderModule(completionChan chan<- string) *RecorderModule {
	return &RecorderModule{
		executionTimes: make(map[string]*ExecutionRecord),
		completionChan: completionChan,
	}
}

type recordInput struct {
	Sleep  float64   `cty:"sleep"`
	Fail   bool      `cty:"fail"`
	FailOn string    `cty:"fail_on"`
	Value  cty.Value `cty:"value"`
}

var recordInputs = map[string]*registry.InputSpec{
	"sleep":   registry.Optional(cty.Number, cty.NumberIntVal(0)),
	"fail":    registry.Optional(cty.Bool, cty.False),
	"fail_on": registry.Optional(cty.String, cty.StringVal("")),
	"value":   registry.Optional(cty.DynamicPseudoType, cty.NullVal(cty.DynamicPseudoType)),
}

// Register registers the "record" task type.
func (m *RecorderModule) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "record", recordInputs, m.onRun)
}

func (m *RecorderModule) onRun(ctx context.Context, deps *task.Input, input *recordInput) (cty.Value, error) {
	n := m.active.Add(1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	start := time.Now()
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-time.After(time.Duration(input.Sleep * float64(time.Second))):
	}
	end := time.Now()
	m.active.Add(-1)

	m.mu.Lock()
	m.executionTimes[deps.Name] = &ExecutionRecord{Start: start, End: end}
	m.order = append(m.order, deps.Name)
	m.mu.Unlock()

	if m.completionChan != nil {
		m.completionChan <- deps.Name
	}
	if err != nil {
		return cty.NilVal, err
	}
	if input.Fail || (input.FailOn != "" && isString(input.Value, input.FailOn)) {
		return cty.NilVal, ErrRecorderFailed
	}
	return cty.ObjectVal(map[string]cty.Value{
		"id":    cty.StringVal(deps.Name),
		"value": input.Value,
	}), nil
}

func isString(v cty.Value, s string) bool {
	return v.IsKnown() && !v.IsNull() && v.Type() == cty.String && v.AsString() == s
}

// Record returns the execution record of the named task, or nil if it
// never ran.
func (m *RecorderModule) Record(name string) *ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.executionTimes[name]
}

// Ran reports whether the named task was executed.
func (m *RecorderModule) Ran(name string) bool {
	return m.Record(name) != nil
}

// Count returns the number of executed record tasks.
func (m *RecorderModule) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.executionTimes)
}

// Order returns task names in completion order.
func (m *RecorderModule) Order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// Peak returns the highest number of record tasks seen running at once.
func (m *RecorderModule) Peak() int {
	return int(m.peak.Load())
}
