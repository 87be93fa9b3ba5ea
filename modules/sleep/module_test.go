package sleep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

func TestSleep(t *testing.T) {
	t.Parallel()

	r := registry.New(&Module{})

	quick, err := r.CreateTask("sleep", "quick", map[string]cty.Value{"seconds": cty.NumberFloatVal(0.01)})
	require.NoError(t, err)
	res := quick.Execute(context.Background())
	require.True(t, res.Success, res.Error())

	slow, err := r.CreateTask("sleep", "slow", map[string]cty.Value{"seconds": cty.NumberIntVal(5)})
	require.NoError(t, err)
	slow.Timeout = 20 * time.Millisecond
	res = slow.Execute(context.Background())
	assert.ErrorIs(t, res.Err, task.ErrTimeout)
	assert.Equal(t, "timeout", res.ErrorKind())
}
