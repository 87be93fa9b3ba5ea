package app

import (
	"fmt"
	"os"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/fsutil"
	"github.com/vk/taskgrid/internal/hcl"
	"github.com/vk/taskgrid/internal/yamlconfig"
)

// newLoader picks the loader for format. In auto mode a directory is
// treated as HCL when it contains any .hcl file, a file by its extension.
func newLoader(format string, paths []string) (config.Loader, error) {
	switch format {
	case FormatHCL:
		return hcl.NewLoader(), nil
	case FormatYAML:
		return yamlconfig.NewLoader(), nil
	}

	first := paths[0]
	info, err := os.Stat(first)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", first, err)
	}
	if info.IsDir() {
		found, err := fsutil.FindFilesByExtension(first, hcl.Extension)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return hcl.NewLoader(), nil
		}
		return yamlconfig.NewLoader(), nil
	}

	switch {
	case fsutil.HasExtension(first, hcl.Extension):
		return hcl.NewLoader(), nil
	case fsutil.HasExtension(first, yamlconfig.Extensions...):
		return yamlconfig.NewLoader(), nil
	}
	return nil, fmt.Errorf("cannot detect the format of %s: use .hcl, .yaml or .yml, or set the format explicitly", first)
}
