package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of one workflow definition.
type Model struct {
	Name   string
	Tasks  []*Task
	Groups []*TaskGroup
}

// Task is the format-agnostic representation of a task definition. Exactly
// one of Type and Function is set.
type Task struct {
	Name      string
	Type      string
	Function  string
	DependsOn []string
	Timeout   time.Duration
	Config    map[string]cty.Value
}

// TaskGroup is the format-agnostic representation of a task group definition.
type TaskGroup struct {
	Name          string
	Type          string
	ForEach       string
	MaxConcurrent int
	AllowPartial  bool
	Config        map[string]cty.Value
}

// Validate checks the model for problems that do not depend on the
// registry: missing names and kinds, and duplicate names.
func (m *Model) Validate() error {
	var errs []error
	seen := make(map[string]string)
	claim := func(kind, name string) {
		if name == "" {
			errs = append(errs, fmt.Errorf("%s without a name", kind))
			return
		}
		if prev, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("%s %q: name already used by a %s", kind, name, prev))
			return
		}
		seen[name] = kind
	}

	for _, t := range m.Tasks {
		claim("task", t.Name)
		switch {
		case t.Type == "" && t.Function == "":
			errs = append(errs, fmt.Errorf("task %q: one of type or function is required", t.Name))
		case t.Type != "" && t.Function != "":
			errs = append(errs, fmt.Errorf("task %q: type and function are mutually exclusive", t.Name))
		}
		if t.Timeout < 0 {
			errs = append(errs, fmt.Errorf("task %q: timeout must not be negative", t.Name))
		}
	}
	for _, g := range m.Groups {
		claim("task group", g.Name)
		if g.Type == "" {
			errs = append(errs, fmt.Errorf("task group %q: type is required", g.Name))
		}
		if g.ForEach == "" {
			errs = append(errs, fmt.Errorf("task group %q: for_each is required", g.Name))
		}
	}
	return errors.Join(errs...)
}
