package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/fsutil"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Extensions are the file extensions of YAML workflow files.
var Extensions = []string{".yaml", ".yml"}

type document struct {
	Name   string              `yaml:"name"`
	Tasks  map[string]taskDoc  `yaml:"tasks"`
	Groups map[string]groupDoc `yaml:"groups"`
}

type taskDoc struct {
	Type      string         `yaml:"type"`
	Function  string         `yaml:"function"`
	DependsOn []string       `yaml:"depends_on"`
	Timeout   string         `yaml:"timeout"`
	Config    map[string]any `yaml:"config"`
}

type groupDoc struct {
	Type          string         `yaml:"type"`
	ForEach       string         `yaml:"for_each"`
	MaxConcurrent int            `yaml:"max_concurrent"`
	AllowPartial  bool           `yaml:"allow_partial"`
	Config        map[string]any `yaml:"config"`
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new YAML loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every YAML file found in paths and merges them into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFiles(paths, Extensions...)
	if err != nil {
		return nil, err
	}

	model := &config.Model{}
	for _, file := range files {
		logger.Debug("Parsing YAML workflow file.", "path", file)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		part, err := decode(file, data)
		if err != nil {
			return nil, err
		}
		if part.Name != "" {
			if model.Name != "" && model.Name != part.Name {
				return nil, fmt.Errorf("conflicting workflow names %q and %q (%s)", model.Name, part.Name, file)
			}
			model.Name = part.Name
		}
		model.Tasks = append(model.Tasks, part.Tasks...)
		model.Groups = append(model.Groups, part.Groups...)
	}

	if model.Name == "" {
		model.Name = defaultName(paths[0])
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Loaded YAML workflow.", "workflow", model.Name, "files", len(files), "tasks", len(model.Tasks), "groups", len(model.Groups))
	return model, nil
}

// Parse decodes a single YAML document held in memory.
func (l *Loader) Parse(filename string, data []byte) (*config.Model, error) {
	model, err := decode(filename, data)
	if err != nil {
		return nil, err
	}
	if model.Name == "" {
		model.Name = defaultName(filename)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

func decode(filename string, data []byte) (*config.Model, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}

	model := &config.Model{Name: doc.Name}
	var errs []error

	for _, name := range sortedKeys(doc.Tasks) {
		td := doc.Tasks[name]
		timeout, err := config.ParseTimeout(td.Timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("task %q: %w", name, err))
		}
		cfg, err := convertConfig(td.Config)
		if err != nil {
			errs = append(errs, fmt.Errorf("task %q: config: %w", name, err))
		}
		model.Tasks = append(model.Tasks, &config.Task{
			Name:      name,
			Type:      td.Type,
			Function:  td.Function,
			DependsOn: td.DependsOn,
			Timeout:   timeout,
			Config:    cfg,
		})
	}

	for _, name := range sortedKeys(doc.Groups) {
		gd := doc.Groups[name]
		cfg, err := convertConfig(gd.Config)
		if err != nil {
			errs = append(errs, fmt.Errorf("task group %q: config: %w", name, err))
		}
		model.Groups = append(model.Groups, &config.TaskGroup{
			Name:          name,
			Type:          gd.Type,
			ForEach:       gd.ForEach,
			MaxConcurrent: gd.MaxConcurrent,
			AllowPartial:  gd.AllowPartial,
			Config:        cfg,
		})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid workflow file %s: %w", filename, errors.Join(errs...))
	}
	return model, nil
}

func convertConfig(raw map[string]any) (map[string]cty.Value, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(map[string]cty.Value, len(raw))
	for k, v := range raw {
		cv, err := value.FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = cv
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func defaultName(path string) string {
	base := filepath.Base(filepath.Clean(path))
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
