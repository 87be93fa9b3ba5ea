// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoFiles is returned by CollectFiles when no matching file was found.
var ErrNoFiles = errors.New("no workflow files found")

// FindFilesByExtension recursively searches the given root path for all files
// ending with one of the extensions. It returns their full paths in lexical
// order.
func FindFilesByExtension(rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && HasExtension(d.Name(), extensions...) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// HasExtension reports whether name ends with one of the extensions,
// ignoring case.
func HasExtension(name string, extensions ...string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// CollectFiles resolves a mix of file and directory paths. Files are taken
// as given regardless of extension; directories are searched recursively.
// Duplicates are dropped and the order of first appearance is kept.
func CollectFiles(paths []string, extensions ...string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		found, err := FindFilesByExtension(p, extensions...)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", p, err)
		}
		out = append(out, found...)
	}

	seen := make(map[string]bool, len(out))
	out = slices.DeleteFunc(out, func(p string) bool {
		clean := filepath.Clean(p)
		if seen[clean] {
			return true
		}
		seen[clean] = true
		return false
	})
	if len(out) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, strings.Join(paths, ", "))
	}
	return out, nil
}
