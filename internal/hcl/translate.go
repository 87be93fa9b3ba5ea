package hcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/template"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// evalContext is used for config expressions. `item` evaluates to the
// placeholder itself so group templates keep it verbatim.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"item": cty.StringVal(template.Placeholder),
		},
		Functions: map[string]function.Function{
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
			"length": stdlib.LengthFunc,
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}

func translateTask(b *taskBlock) (*config.Task, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	timeout, err := config.ParseTimeout(b.Timeout)
	if err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid timeout",
			Detail:   fmt.Sprintf("Task %q: %s.", b.Name, err),
			Subject:  b.DeclRange.Ptr(),
		})
	}
	cfg, cfgDiags := decodeConfig(b.Config)
	diags = append(diags, cfgDiags...)
	if diags.HasErrors() {
		return nil, diags
	}

	return &config.Task{
		Name:      b.Name,
		Type:      b.Type,
		Function:  b.Function,
		DependsOn: b.DependsOn,
		Timeout:   timeout,
		Config:    cfg,
	}, diags
}

func translateGroup(b *groupBlock) (*config.TaskGroup, hcl.Diagnostics) {
	forEach, diags := decodeForEach(b.ForEach)
	cfg, cfgDiags := decodeConfig(b.Config)
	diags = append(diags, cfgDiags...)
	if diags.HasErrors() {
		return nil, diags
	}

	return &config.TaskGroup{
		Name:          b.Name,
		Type:          b.Type,
		ForEach:       forEach,
		MaxConcurrent: b.MaxConcurrent,
		AllowPartial:  b.AllowPartial,
		Config:        cfg,
	}, diags
}

// decodeConfig evaluates a config attribute into its top-level attributes.
// An absent attribute yields a nil map.
func decodeConfig(expr hcl.Expression) (map[string]cty.Value, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalContext())
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, diags
	}
	if !value.IsMapping(val) {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid config",
			Detail:   fmt.Sprintf("The config attribute must be an object, got %s.", val.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		})
	}
	return value.Attributes(val), diags
}

// decodeForEach accepts either a bare reference (scan.subdomains) or a
// string holding the same path.
func decodeForEach(expr hcl.Expression) (string, hcl.Diagnostics) {
	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() {
		return traversalPath(traversal)
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid for_each",
			Detail:   "for_each must be a reference such as scan.subdomains or a string holding one.",
			Subject:  expr.Range().Ptr(),
		})
	}
	return val.AsString(), diags
}

// traversalPath renders a traversal in the dotted form understood by
// nodeid.Parse, e.g. scan.items[0].
func traversalPath(t hcl.Traversal) (string, hcl.Diagnostics) {
	var b strings.Builder
	for _, step := range t {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			b.WriteString(s.Name)
		case hcl.TraverseAttr:
			b.WriteString(".")
			b.WriteString(s.Name)
		case hcl.TraverseIndex:
			if s.Key.Type() != cty.Number {
				return "", hcl.Diagnostics{{
					Severity: hcl.DiagError,
					Summary:  "Invalid for_each",
					Detail:   "Only numeric indexes are supported in for_each references.",
					Subject:  s.SrcRange.Ptr(),
				}}
			}
			b.WriteString("[")
			b.WriteString(s.Key.AsBigFloat().Text('f', 0))
			b.WriteString("]")
		default:
			return "", hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid for_each",
				Detail:   "Unsupported step in for_each reference.",
				Subject:  t.SourceRange().Ptr(),
			}}
		}
	}
	return b.String(), nil
}
