package nodeid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned for any path that does not match the grammar.
var ErrInvalidPath = errors.New("invalid path")

// segmentRegex is used to parse a single segment of a path, e.g., `name` or `name[1]`.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(?:\[(\d+)\])?$`)

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	return name != "-"
}

// Parse creates a new Address by parsing its canonical string representation.
func Parse(raw string) (*Address, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrInvalidPath)
	}

	addr := &Address{}
	for _, segmentStr := range strings.Split(raw, ".") {
		if segmentStr == "" {
			return nil, fmt.Errorf("%w: %q contains an empty segment", ErrInvalidPath, raw)
		}

		matches := segmentRegex.FindStringSubmatch(segmentStr)
		if matches == nil {
			return nil, fmt.Errorf("%w: invalid segment %q in %q", ErrInvalidPath, segmentStr, raw)
		}

		name := matches[1]
		if !isValidSegmentName(name) {
			return nil, fmt.Errorf("%w: invalid segment name %q", ErrInvalidPath, name)
		}

		segment := NewPathSegment(name)
		if matches[2] != "" {
			index, err := strconv.Atoi(matches[2])
			if err != nil {
				return nil, fmt.Errorf("%w: index out of range in %q", ErrInvalidPath, segmentStr)
			}
			segment.Index = index
		}
		addr.Path = append(addr.Path, segment)
	}

	return addr, nil
}
