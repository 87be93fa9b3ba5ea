package value

import (
	"errors"
	"fmt"

	"github.com/vk/taskgrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrPathNotFound is returned when a key or index along a path does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrTypeMismatch is returned when a value along a path has the wrong shape.
	ErrTypeMismatch = errors.New("type mismatch")
)

// PathError reports where a walk into a value failed.
type PathError struct {
	Path    string
	Segment string
	Err     error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("resolving %q at %q: %v", e.Path, e.Segment, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Walk follows path into root. Every segment name selects a key of the
// current mapping and an optional index selects an element of the list
// found there.
func Walk(root cty.Value, path []nodeid.PathSegment) (cty.Value, error) {
	cur := root
	for _, seg := range path {
		next, err := attr(cur, seg.Name)
		if err == nil && seg.HasIndex() {
			next, err = index(next, seg.Index)
		}
		if err != nil {
			return cty.NilVal, &PathError{Path: nodeid.Join(path), Segment: seg.String(), Err: err}
		}
		cur = next
	}
	return cur, nil
}

// Lookup parses a dotted path and walks it into root.
func Lookup(root cty.Value, path string) (cty.Value, error) {
	addr, err := nodeid.Parse(path)
	if err != nil {
		return cty.NilVal, err
	}
	return Walk(root, addr.Path)
}

// List returns the elements of a list, tuple or set value.
func List(v cty.Value) ([]cty.Value, error) {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("%w: expected a list, found null", ErrTypeMismatch)
	}
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil, fmt.Errorf("%w: expected a list, found %s", ErrTypeMismatch, ty.FriendlyName())
	}
	elems := v.AsValueSlice()
	if elems == nil {
		elems = []cty.Value{}
	}
	return elems, nil
}

func attr(v cty.Value, name string) (cty.Value, error) {
	if !IsMapping(v) {
		return cty.NilVal, fmt.Errorf("%w: expected a mapping, found %s", ErrTypeMismatch, describe(v))
	}
	ty := v.Type()
	if ty.IsObjectType() {
		if !ty.HasAttribute(name) {
			return cty.NilVal, fmt.Errorf("%w: no key %q", ErrPathNotFound, name)
		}
		return v.GetAttr(name), nil
	}
	key := cty.StringVal(name)
	if !v.HasIndex(key).True() {
		return cty.NilVal, fmt.Errorf("%w: no key %q", ErrPathNotFound, name)
	}
	return v.Index(key), nil
}

func index(v cty.Value, i int) (cty.Value, error) {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() || !(v.Type().IsListType() || v.Type().IsTupleType()) {
		return cty.NilVal, fmt.Errorf("%w: expected a list, found %s", ErrTypeMismatch, describe(v))
	}
	if i >= v.LengthInt() {
		return cty.NilVal, fmt.Errorf("%w: index %d out of range (length %d)", ErrPathNotFound, i, v.LengthInt())
	}
	return v.Index(cty.NumberIntVal(int64(i))), nil
}

func describe(v cty.Value) string {
	switch {
	case v == cty.NilVal || v.IsNull():
		return "null"
	case !v.IsKnown():
		return "unknown value"
	default:
		return v.Type().FriendlyName()
	}
}
