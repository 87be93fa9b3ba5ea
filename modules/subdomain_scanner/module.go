// Package subdomain_scanner provides a mock subdomain discovery task. It
// derives candidates from a fixed prefix list instead of querying DNS, so
// its output is deterministic.
package subdomain_scanner

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

// DefaultPrefixes are the subdomains reported when none are configured.
var DefaultPrefixes = []string{"www", "api", "dev", "staging", "test", "admin", "blog"}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the config of a scan.
type Input struct {
	Target   string   `cty:"target"`
	Prefixes []string `cty:"prefixes"`
	Scheme   string   `cty:"scheme"`
}

func prefixList() cty.Value {
	vals := make([]cty.Value, len(DefaultPrefixes))
	for i, p := range DefaultPrefixes {
		vals[i] = cty.StringVal(p)
	}
	return cty.ListVal(vals)
}

var inputs = map[string]*registry.InputSpec{
	"target":   registry.Required(cty.String),
	"prefixes": registry.Optional(cty.List(cty.String), prefixList()),
	"scheme":   registry.Optional(cty.String, cty.StringVal("https")),
}

// OnRunScan is the handler for the 'subdomain_scanner' task type.
func OnRunScan(ctx context.Context, _ *task.Input, input *Input) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	target := strings.TrimSpace(strings.ToLower(input.Target))
	if target == "" {
		return cty.NilVal, fmt.Errorf("target domain not specified")
	}
	logger.Info("Starting subdomain scan.", "target", target)

	var hosts, urls, discovered []cty.Value
	for _, prefix := range input.Prefixes {
		host := prefix + "." + target
		url := input.Scheme + "://" + host
		hosts = append(hosts, cty.StringVal(host))
		urls = append(urls, cty.StringVal(url))
		discovered = append(discovered, cty.ObjectVal(map[string]cty.Value{
			"host":   cty.StringVal(host),
			"url":    cty.StringVal(url),
			"status": cty.StringVal("discovered"),
		}))
		logger.Debug("Discovered subdomain.", "url", url)
	}
	logger.Info("Subdomain scan finished.", "target", target, "found", len(hosts))

	return cty.ObjectVal(map[string]cty.Value{
		"target":      cty.StringVal(target),
		"subdomains":  tuple(hosts),
		"urls":        tuple(urls),
		"discovered":  tuple(discovered),
		"total_found": cty.NumberIntVal(int64(len(hosts))),
	}), nil
}

func tuple(vals []cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(vals)
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "subdomain_scanner", inputs, OnRunScan)
}
