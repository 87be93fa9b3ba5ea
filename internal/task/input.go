package task

import (
	"fmt"

	"github.com/vk/taskgrid/internal/nodeid"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// PrevAlias refers to the first dependency in Input.Output paths.
const PrevAlias = "prev"

// Input is what a Runner receives for one execution.
type Input struct {
	Name              string
	Config            map[string]cty.Value
	DependencyOutputs map[string]cty.Value
	DependencyOrder   []string
}

// Dependency returns the output recorded for the named dependency.
func (in *Input) Dependency(name string) (cty.Value, bool) {
	v, ok := in.DependencyOutputs[name]
	return v, ok
}

// Output resolves a dotted path against the dependency outputs. The first
// segment names a dependency, or "prev" for the first one in dependency
// order; the rest walks into its output, e.g. "prev.content".
func (in *Input) Output(path string) (cty.Value, error) {
	addr, err := nodeid.Parse(path)
	if err != nil {
		return cty.NilVal, err
	}
	name := addr.Root()
	if name == PrevAlias {
		if _, isDep := in.DependencyOutputs[PrevAlias]; !isDep {
			if len(in.DependencyOrder) == 0 {
				return cty.NilVal, fmt.Errorf("%w: task %q has no dependencies", value.ErrPathNotFound, in.Name)
			}
			name = in.DependencyOrder[0]
		}
	}
	out, ok := in.DependencyOutputs[name]
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: no output from dependency %q", value.ErrPathNotFound, name)
	}
	return value.Walk(out, addr.Rest())
}

// String returns the string config value for key, or def when the key is
// absent, null or not convertible to a string.
func (in *Input) String(key, def string) string {
	v, ok := in.Config[key]
	if !ok || v.IsNull() || !v.IsKnown() {
		return def
	}
	if v.Type() == cty.String {
		return v.AsString()
	}
	if v.Type().IsPrimitiveType() {
		return value.String(v)
	}
	return def
}

// Int returns the numeric config value for key truncated to an int, or def.
func (in *Input) Int(key string, def int) int {
	v, ok := in.Config[key]
	if !ok || v.IsNull() || !v.IsKnown() || v.Type() != cty.Number {
		return def
	}
	i, _ := v.AsBigFloat().Int64()
	return int(i)
}

// Float returns the numeric config value for key, or def.
func (in *Input) Float(key string, def float64) float64 {
	v, ok := in.Config[key]
	if !ok || v.IsNull() || !v.IsKnown() || v.Type() != cty.Number {
		return def
	}
	f, _ := v.AsBigFloat().Float64()
	return f
}

// Bool returns the boolean config value for key, or def.
func (in *Input) Bool(key string, def bool) bool {
	v, ok := in.Config[key]
	if !ok || v.IsNull() || !v.IsKnown() || v.Type() != cty.Bool {
		return def
	}
	return v.True()
}

// Value returns the raw config value for key.
func (in *Input) Value(key string) (cty.Value, bool) {
	v, ok := in.Config[key]
	if !ok || v.IsNull() {
		return cty.NilVal, false
	}
	return v, true
}
