package group

import (
	"errors"
	"fmt"

	"github.com/vk/taskgrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// DefaultMaxConcurrent is used when a config leaves MaxConcurrent at zero.
const DefaultMaxConcurrent = 1

// ErrInvalidConfig is returned for group configs that cannot be expanded.
var ErrInvalidConfig = errors.New("invalid task group config")

// Config describes how a group expands.
type Config struct {
	// Type is the task type every derived task is created from.
	Type string
	// ForEach is a dotted path whose first segment names the trigger task
	// and whose remaining segments locate a list in the trigger's output.
	ForEach string
	// ConfigTemplate is rendered once per item; see package template.
	ConfigTemplate map[string]cty.Value
	// MaxConcurrent caps the number of derived tasks running at once.
	MaxConcurrent int
	// AllowPartial makes a batch succeed when at least one item succeeded.
	AllowPartial bool
}

// Validate checks the config and returns the parsed ForEach path.
func (c Config) Validate() (*nodeid.Address, error) {
	if c.Type == "" {
		return nil, fmt.Errorf("%w: type is required", ErrInvalidConfig)
	}
	if c.MaxConcurrent < 0 {
		return nil, fmt.Errorf("%w: max_concurrent must not be negative, got %d", ErrInvalidConfig, c.MaxConcurrent)
	}
	addr, err := nodeid.Parse(c.ForEach)
	if err != nil {
		return nil, fmt.Errorf("%w: for_each: %w", ErrInvalidConfig, err)
	}
	if len(addr.Path) < 2 {
		return nil, fmt.Errorf("%w: for_each %q must name a task and a key in its output", ErrInvalidConfig, c.ForEach)
	}
	if addr.Path[0].HasIndex() {
		return nil, fmt.Errorf("%w: for_each %q: the task segment cannot be indexed", ErrInvalidConfig, c.ForEach)
	}
	return addr, nil
}

// Trigger returns the name of the task whose completion expands the group.
func (c Config) Trigger() string {
	addr, err := nodeid.Parse(c.ForEach)
	if err != nil {
		return ""
	}
	return addr.Root()
}

func (c Config) limit() int {
	if c.MaxConcurrent == 0 {
		return DefaultMaxConcurrent
	}
	return c.MaxConcurrent
}
