package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

// TestDagConcurrency_FanInSynchronization validates that a task with several
// dependencies waits for all of them and sees every output.
func TestDagConcurrency_FanInSynchronization(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	workflowHCL := `
		task "fast" {
		  type   = "record"
		  config = { value = "f" }
		}
		task "slow" {
		  type   = "record"
		  config = { sleep = 0.15, value = "s" }
		}
		task "join" {
		  type       = "record"
		  depends_on = ["fast", "slow"]
		}
	`
	recorder := testutil.NewRecorderModule(nil)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": workflowHCL}, recorder)

	// --- Assert ---
	require.NoError(t, result.Err)
	join := recorder.Record("join")
	require.NotNil(t, join)
	assert.Equal(t, []string{"fast", "slow", "join"}, recorder.Order())
	assert.False(t, join.Start.Before(recorder.Record("slow").End), "join started before slow finished")
	assert.False(t, join.Start.Before(recorder.Record("fast").End), "join started before fast finished")

	tk, err := result.App.Workflow().GetTask("join")
	require.NoError(t, err)
	outputs := tk.DependencyOutputs()
	assert.Equal(t, []string{"fast", "slow"}, tk.DependencyOrder())
	assert.True(t, outputs["slow"].GetAttr("value").RawEquals(cty.StringVal("s")))
	assert.Equal(t, 2, result.App.Workflow().LastRun().Rounds)
}
