package value

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrNotANumber is returned by FromGo for NaN floats, which cty numbers
// cannot represent.
var ErrNotANumber = errors.New("NaN is not a valid number")

// FromGo converts a native Go value into a cty.Value. Slices become tuples
// and maps with string keys become objects, so heterogeneous data coming
// from task runners or YAML documents survives the conversion. Values that
// are already cty.Value are returned unchanged. Structs are converted with
// gocty using their `cty` field tags.
//
// Strings are NFC-normalized, as every cty string is: "\u2000" comes back
// from ToGo as "\u2002".
func FromGo(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		if t == cty.NilVal {
			return cty.NullVal(cty.DynamicPseudoType), nil
		}
		return t, nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int8:
		return cty.NumberIntVal(int64(t)), nil
	case int16:
		return cty.NumberIntVal(int64(t)), nil
	case int32:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case uint:
		return cty.NumberUIntVal(uint64(t)), nil
	case uint8:
		return cty.NumberUIntVal(uint64(t)), nil
	case uint16:
		return cty.NumberUIntVal(uint64(t)), nil
	case uint32:
		return cty.NumberUIntVal(uint64(t)), nil
	case uint64:
		return cty.NumberUIntVal(t), nil
	case float32:
		return floatVal(float64(t))
	case float64:
		return floatVal(t)
	case []any:
		return tupleFrom(len(t), func(i int) any { return t[i] })
	case []string:
		return tupleFrom(len(t), func(i int) any { return t[i] })
	case []map[string]any:
		return tupleFrom(len(t), func(i int) any { return t[i] })
	case map[string]any:
		attrs := make(map[string]cty.Value, len(t))
		for k, item := range t {
			cv, err := FromGo(item)
			if err != nil {
				return cty.NilVal, fmt.Errorf("key %q: %w", k, err)
			}
			attrs[k] = cv
		}
		return cty.ObjectVal(attrs), nil
	case map[string]string:
		attrs := make(map[string]cty.Value, len(t))
		for k, item := range t {
			attrs[k] = cty.StringVal(item)
		}
		return cty.ObjectVal(attrs), nil
	case map[string]cty.Value:
		return Object(t), nil
	}

	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unsupported value of type %T: %w", v, err)
	}
	cv, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("converting %T: %w", v, err)
	}
	return cv, nil
}

func floatVal(f float64) (cty.Value, error) {
	if math.IsNaN(f) {
		return cty.NilVal, ErrNotANumber
	}
	return cty.NumberFloatVal(f), nil
}

func tupleFrom(n int, at func(int) any) (cty.Value, error) {
	if n == 0 {
		return cty.EmptyTupleVal, nil
	}
	elems := make([]cty.Value, n)
	for i := range elems {
		cv, err := FromGo(at(i))
		if err != nil {
			return cty.NilVal, fmt.Errorf("index %d: %w", i, err)
		}
		elems[i] = cv
	}
	return cty.TupleVal(elems), nil
}

// Object builds an object value from a map of attributes. A nil or empty
// map yields the empty object.
func Object(attrs map[string]cty.Value) cty.Value {
	if len(attrs) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(attrs)
}

// Attributes returns the attributes of an object or map value. Null and
// non-mapping values yield nil.
func Attributes(v cty.Value) map[string]cty.Value {
	if !IsMapping(v) {
		return nil
	}
	out := make(map[string]cty.Value, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, item := it.Element()
		out[k.AsString()] = item
	}
	return out
}

// IsMapping reports whether v is a known, non-null object or map.
func IsMapping(v cty.Value) bool {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return false
	}
	ty := v.Type()
	return ty.IsObjectType() || ty.IsMapType()
}

// ToGo converts a cty.Value to plain Go data: string, bool, int64 or
// float64, []any and map[string]any. Null and unknown values become nil.
func ToGo(v cty.Value) (any, error) {
	if v == cty.NilVal || !v.IsKnown() || v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		return numberToGo(v.AsBigFloat()), nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, item := it.Element()
			native, err := ToGo(item)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = native
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, item := it.Element()
			native, err := ToGo(item)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", ty.FriendlyName())
}

func numberToGo(bf *big.Float) any {
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return i
		}
	}
	f, _ := bf.Float64()
	return f
}

// ForLog converts a value into something slog renders readably. Conversion
// failures are reported inline rather than dropped.
func ForLog(v cty.Value) any {
	native, err := ToGo(v)
	if err != nil {
		return fmt.Sprintf("[unloggable cty.Value: %v]", err)
	}
	return native
}

// Keys returns the sorted attribute names of a mapping value.
func Keys(v cty.Value) []string {
	attrs := Attributes(v)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
