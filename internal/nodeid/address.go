package nodeid

import (
	"reflect"
	"strconv"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	return Join(a.Path)
}

// Join renders a segment list as a dotted path.
func Join(segments []PathSegment) string {
	var sb strings.Builder
	for i, segment := range segments {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.String())
	}
	return sb.String()
}

// Equal checks for deep equality between two Address pointers.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return reflect.DeepEqual(a.Path, other.Path)
}

func itoa(i int) string { return strconv.Itoa(i) }
