// Package result_analyzer summarises URL check results produced by a group
// of http_request tasks.
package result_analyzer

import (
	"context"
	"fmt"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input points at the list of check results in the dependency outputs.
type Input struct {
	Source string `cty:"source"`
}

var inputs = map[string]*registry.InputSpec{
	"source": registry.Optional(cty.String, cty.StringVal("prev.results")),
}

type check struct {
	url          string
	live         bool
	responseTime float64
}

// OnRunAnalyze is the handler for the 'result_analyzer' task type.
func OnRunAnalyze(ctx context.Context, deps *task.Input, input *Input) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)

	src, err := deps.Output(input.Source)
	if err != nil {
		return cty.NilVal, fmt.Errorf("reading results: %w", err)
	}
	items, err := value.List(src)
	if err != nil {
		return cty.NilVal, fmt.Errorf("reading results from %s: %w", input.Source, err)
	}
	logger.Info("Starting result analysis.", "results", len(items))

	var (
		live, dead []cty.Value
		total      float64
	)
	for _, item := range items {
		c := parseCheck(item)
		total += c.responseTime
		if c.live {
			live = append(live, cty.StringVal(c.url))
		} else {
			dead = append(dead, cty.StringVal(c.url))
		}
	}

	avg := 0.0
	if len(items) > 0 {
		avg = total / float64(len(items))
	}
	logger.Info("Analysis complete.", "live", len(live), "dead", len(dead))

	return cty.ObjectVal(map[string]cty.Value{
		"total_urls":            cty.NumberIntVal(int64(len(items))),
		"live_urls":             cty.NumberIntVal(int64(len(live))),
		"dead_urls":             cty.NumberIntVal(int64(len(dead))),
		"live_url_list":         list(live),
		"dead_url_list":         list(dead),
		"average_response_time": cty.NumberFloatVal(avg),
	}), nil
}

// parseCheck reads one check result. Missing fields count as a dead URL
// with no response time.
func parseCheck(v cty.Value) check {
	var c check
	attrs := value.Attributes(v)
	if u, ok := attrs["url"]; ok && !u.IsNull() {
		c.url = value.String(u)
	}
	if l, ok := attrs["is_live"]; ok && l.Type() == cty.Bool && !l.IsNull() {
		c.live = l.True()
	}
	if rt, ok := attrs["response_time"]; ok && rt.Type() == cty.Number && !rt.IsNull() {
		c.responseTime, _ = rt.AsBigFloat().Float64()
	}
	return c
}

func list(vals []cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	return cty.ListVal(vals)
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "result_analyzer", inputs, OnRunAnalyze)
}
