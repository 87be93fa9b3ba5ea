package echo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func TestEcho(t *testing.T) {
	t.Parallel()

	r := registry.New(&Module{})
	tk, err := r.CreateTask("echo", "say", map[string]cty.Value{"message": cty.StringVal("hi")})
	require.NoError(t, err)

	res := tk.Execute(context.Background())

	require.True(t, res.Success)
	assert.Equal(t, "hi", res.Output.GetAttr("message").AsString())

	empty, err := r.CreateTask("echo", "quiet", nil)
	require.NoError(t, err)
	assert.True(t, empty.Execute(context.Background()).Output.RawEquals(cty.EmptyObjectVal))
}
