package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// InputSpec describes one config key accepted by a task type.
type InputSpec struct {
	Type     cty.Type
	Required bool
	// Default is used when the key is absent. cty.NilVal means no default.
	Default cty.Value
}

// Optional declares an optional input with a default value.
func Optional(ty cty.Type, def cty.Value) *InputSpec {
	return &InputSpec{Type: ty, Default: def}
}

// Required declares a mandatory input.
func Required(ty cty.Type) *InputSpec {
	return &InputSpec{Type: ty, Required: true}
}

// applyInputs checks config against inputs, filling defaults and converting
// values to the declared types. Unknown keys are rejected so that typos in
// workflow files surface at creation time.
func applyInputs(typeName string, inputs map[string]*InputSpec, config map[string]cty.Value) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(config))
	if inputs == nil {
		for k, v := range config {
			out[k] = v
		}
		return out, nil
	}

	var errs []error
	for _, key := range sortedKeys(config) {
		if _, ok := inputs[key]; !ok {
			errs = append(errs, fmt.Errorf("%s does not accept config key %q", typeName, key))
		}
	}

	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := inputs[name]
		v, present := config[name]
		if !present || v.IsNull() {
			switch {
			case spec.Default != cty.NilVal:
				out[name] = spec.Default
			case spec.Required:
				errs = append(errs, fmt.Errorf("%s requires config key %q", typeName, name))
			}
			continue
		}
		if spec.Type == cty.NilType || spec.Type == cty.DynamicPseudoType {
			out[name] = v
			continue
		}
		converted, err := convert.Convert(v, spec.Type)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s config key %q: %w", typeName, name, err))
			continue
		}
		out[name] = converted
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return out, nil
}
