package uppercase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func TestUppercase(t *testing.T) {
	t.Parallel()

	r := registry.New(&Module{})

	direct, err := r.CreateTask("uppercase", "u1", map[string]cty.Value{"text": cty.StringVal("abc")})
	require.NoError(t, err)
	res := direct.Execute(context.Background())
	require.True(t, res.Success, res.Error())
	assert.Equal(t, "ABC", res.Output.GetAttr("content").AsString())

	chained, err := r.CreateTask("uppercase", "u2", nil)
	require.NoError(t, err)
	chained.Prepare(map[string]cty.Value{
		"read": cty.ObjectVal(map[string]cty.Value{"content": cty.StringVal("hello")}),
	}, []string{"read"})
	res = chained.Execute(context.Background())
	require.True(t, res.Success, res.Error())
	assert.Equal(t, "HELLO", res.Output.GetAttr("processed_text").AsString())

	orphan, err := r.CreateTask("uppercase", "u3", nil)
	require.NoError(t, err)
	assert.False(t, orphan.Execute(context.Background()).Success)
}
