package config

import "context"

// Loader is the interface for a format-specific workflow loader.
type Loader interface {
	// Load reads workflow definitions from the given files or directories
	// and merges them into one Model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
