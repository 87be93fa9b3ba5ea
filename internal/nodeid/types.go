package nodeid

// PathSegment is a single component of a path, e.g. `name` or `name[index]`.
type PathSegment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewPathSegment creates a new path segment without an index.
func NewPathSegment(name string) PathSegment {
	return PathSegment{Name: name, Index: -1}
}

// NewPathSegmentWithIndex creates a new path segment that includes an index.
func NewPathSegmentWithIndex(name string, index int) PathSegment {
	return PathSegment{Name: name, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (ps PathSegment) HasIndex() bool {
	return ps.Index != -1
}

// String renders the segment in its canonical form.
func (ps PathSegment) String() string {
	if !ps.HasIndex() {
		return ps.Name
	}
	return ps.Name + "[" + itoa(ps.Index) + "]"
}

// Address is a parsed reference path.
type Address struct {
	Path []PathSegment
}

// Root returns the name of the first segment, which identifies the task or
// group the path points into.
func (a *Address) Root() string {
	if a == nil || len(a.Path) == 0 {
		return ""
	}
	return a.Path[0].Name
}

// Rest returns the segments after the root.
func (a *Address) Rest() []PathSegment {
	if a == nil || len(a.Path) < 2 {
		return nil
	}
	return a.Path[1:]
}
