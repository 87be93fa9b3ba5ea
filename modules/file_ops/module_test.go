package file_ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func run(t *testing.T, config map[string]cty.Value, deps map[string]cty.Value, order []string) (cty.Value, error) {
	t.Helper()
	tk, err := registry.New(&Module{}).CreateTask("file_ops", "f", config)
	require.NoError(t, err)
	tk.Prepare(deps, order)
	res := tk.Execute(context.Background())
	return res.Output, res.Err
}

func TestFileOps_ReadWriteAppend(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")

	// write from config
	_, err := run(t, map[string]cty.Value{
		"operation": cty.StringVal("write"),
		"file_path": cty.StringVal(path),
		"content":   cty.StringVal("first"),
	}, nil, nil)
	require.NoError(t, err)

	// append
	_, err = run(t, map[string]cty.Value{
		"operation": cty.StringVal("append"),
		"file_path": cty.StringVal(path),
		"content":   cty.StringVal("second"),
	}, nil, nil)
	require.NoError(t, err)

	// read
	out, err := run(t, map[string]cty.Value{"file_path": cty.StringVal(path)}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", out.GetAttr("content").AsString())
	assert.Equal(t, "read", out.GetAttr("operation").AsString())
	assert.True(t, out.GetAttr("lines").RawEquals(cty.TupleVal([]cty.Value{cty.StringVal("first"), cty.StringVal("second")})))
}

func TestFileOps_WriteFromDependency(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "upper.txt")
	deps := map[string]cty.Value{
		"shout": cty.ObjectVal(map[string]cty.Value{"content": cty.StringVal("LOUD")}),
	}

	_, err := run(t, map[string]cty.Value{
		"operation": cty.StringVal("write"),
		"file_path": cty.StringVal(path),
	}, deps, []string{"shout"})

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "LOUD", string(data))
}

func TestFileOps_Errors(t *testing.T) {
	t.Parallel()

	_, err := run(t, map[string]cty.Value{
		"operation": cty.StringVal("delete"),
		"file_path": cty.StringVal("x"),
	}, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = run(t, map[string]cty.Value{"file_path": cty.StringVal(filepath.Join(t.TempDir(), "missing"))}, nil, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = registry.New(&Module{}).CreateTask("file_ops", "f", nil)
	assert.ErrorIs(t, err, registry.ErrInvalidConfig)
}
