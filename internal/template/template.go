// Package template renders per-item task configs for task groups.
package template

import (
	"strings"

	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Placeholder is the token replaced by the current item in string values.
const Placeholder = "${item}"

// Render returns a copy of tmpl with every occurrence of Placeholder in
// top-level string values replaced by the string form of item. Values of any
// other type, and strings without the placeholder, are copied unchanged.
// Nested objects and lists are not searched.
func Render(tmpl map[string]cty.Value, item cty.Value) map[string]cty.Value {
	return RenderString(tmpl, value.String(item))
}

// RenderString is Render with an already formatted item.
func RenderString(tmpl map[string]cty.Value, item string) map[string]cty.Value {
	out := make(map[string]cty.Value, len(tmpl))
	for k, v := range tmpl {
		if !hasPlaceholder(v) {
			out[k] = v
			continue
		}
		out[k] = cty.StringVal(strings.ReplaceAll(v.AsString(), Placeholder, item))
	}
	return out
}

// Templated reports whether any top-level string value of tmpl references
// the placeholder.
func Templated(tmpl map[string]cty.Value) bool {
	for _, v := range tmpl {
		if hasPlaceholder(v) {
			return true
		}
	}
	return false
}

func hasPlaceholder(v cty.Value) bool {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() || v.IsMarked() || v.Type() != cty.String {
		return false
	}
	return strings.Contains(v.AsString(), Placeholder)
}
