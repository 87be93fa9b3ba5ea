package group

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

// ErrBatchFailed is wrapped by the error of a failed aggregated result.
var ErrBatchFailed = errors.New("task group failed")

// Batch status values reported in the aggregated output.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
	StatusFailed   = "failed"
	StatusEmpty    = "empty"
)

// ItemResult is the outcome of one derived task.
type ItemResult struct {
	Item   cty.Value
	Task   string
	Result task.Result
}

// Aggregator folds the per-item results of a batch into one result.
type Aggregator interface {
	Aggregate(group string, items []ItemResult) task.Result
}

// AggregatorFunc adapts a function to the Aggregator interface.
type AggregatorFunc func(group string, items []ItemResult) task.Result

// Aggregate calls f.
func (f AggregatorFunc) Aggregate(group string, items []ItemResult) task.Result {
	return f(group, items)
}

// DefaultAggregator collects item outputs in item order. The batch succeeds
// when no item failed, or, with AllowPartial, when at least one item
// succeeded. An empty batch succeeds.
//
// The output object has the keys results, items, tasks, errors, total,
// succeeded, failed and status.
type DefaultAggregator struct {
	AllowPartial bool
}

// Aggregate implements Aggregator.
func (a DefaultAggregator) Aggregate(group string, items []ItemResult) task.Result {
	outputs := make([]cty.Value, len(items))
	values := make([]cty.Value, len(items))
	names := make([]cty.Value, len(items))
	itemErrs := make(map[string]cty.Value)
	var errs []error
	succeeded := 0

	for i, ir := range items {
		outputs[i] = ir.Result.Output
		if outputs[i] == cty.NilVal {
			outputs[i] = cty.EmptyObjectVal
		}
		values[i] = ir.Item
		names[i] = cty.StringVal(ir.Task)
		if ir.Result.Success {
			succeeded++
			continue
		}
		itemErrs[ir.Task] = cty.StringVal(ir.Result.Error())
		errs = append(errs, fmt.Errorf("%s: %w", ir.Task, ir.Result.Err))
	}
	failed := len(items) - succeeded

	status := StatusComplete
	switch {
	case len(items) == 0:
		status = StatusEmpty
	case succeeded == 0:
		status = StatusFailed
	case failed > 0:
		status = StatusPartial
	}

	out := cty.ObjectVal(map[string]cty.Value{
		"results":   tuple(outputs),
		"items":     tuple(values),
		"tasks":     tuple(names),
		"errors":    object(itemErrs),
		"total":     cty.NumberIntVal(int64(len(items))),
		"succeeded": cty.NumberIntVal(int64(succeeded)),
		"failed":    cty.NumberIntVal(int64(failed)),
		"status":    cty.StringVal(status),
	})

	if failed == 0 || (a.AllowPartial && succeeded > 0) {
		return task.Succeeded(out)
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	res := task.Failed(fmt.Errorf("%w: %s: %d of %d items failed: %w", ErrBatchFailed, group, failed, len(items), errors.Join(errs...)))
	res.Output = out
	return res
}

func tuple(vals []cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(vals)
}

func object(attrs map[string]cty.Value) cty.Value {
	if len(attrs) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(attrs)
}
