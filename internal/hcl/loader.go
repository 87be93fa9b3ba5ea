package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/fsutil"
)

// Extension is the file extension of HCL workflow files.
const Extension = ".hcl"

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every HCL file found in paths and merges them into one model.
// Without a workflow block the model is named after the first path.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	var roots []*parsedFile
	for _, file := range files {
		logger.Debug("Parsing HCL workflow file.", "path", file)
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		root, err := decodeFile(file, hclFile.Body)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}

	model, err := merge(roots)
	if err != nil {
		return nil, err
	}
	if model.Name == "" {
		model.Name = defaultName(paths[0])
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Loaded HCL workflow.", "workflow", model.Name, "files", len(files), "tasks", len(model.Tasks), "groups", len(model.Groups))
	return model, nil
}

// Parse decodes a single HCL document held in memory.
func (l *Loader) Parse(filename string, src []byte) (*config.Model, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	root, err := decodeFile(filename, hclFile.Body)
	if err != nil {
		return nil, err
	}
	model, err := merge([]*parsedFile{root})
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

type parsedFile struct {
	path  string
	name  string
	model *config.Model
}

func decodeFile(path string, body hcl.Body) (*parsedFile, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	out := &parsedFile{path: path, model: &config.Model{}}
	if len(root.Workflows) > 1 {
		return nil, fmt.Errorf("%s: only one workflow block is allowed", path)
	}
	if len(root.Workflows) == 1 {
		out.name = root.Workflows[0].Name
	}

	var diags hcl.Diagnostics
	for _, tb := range root.Tasks {
		t, d := translateTask(tb)
		diags = append(diags, d...)
		if t != nil {
			out.model.Tasks = append(out.model.Tasks, t)
		}
	}
	for _, gb := range root.Groups {
		g, d := translateGroup(gb)
		diags = append(diags, d...)
		if g != nil {
			out.model.Groups = append(out.model.Groups, g)
		}
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid workflow file %s: %w", path, diags)
	}
	return out, nil
}

func merge(files []*parsedFile) (*config.Model, error) {
	model := &config.Model{}
	var namedIn string
	for _, f := range files {
		if f.name != "" {
			if model.Name != "" && model.Name != f.name {
				return nil, fmt.Errorf("conflicting workflow names %q (%s) and %q (%s)", model.Name, namedIn, f.name, f.path)
			}
			model.Name, namedIn = f.name, f.path
		}
		model.Tasks = append(model.Tasks, f.model.Tasks...)
		model.Groups = append(model.Groups, f.model.Groups...)
	}
	return model, nil
}

func defaultName(path string) string {
	base := filepath.Base(filepath.Clean(path))
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
