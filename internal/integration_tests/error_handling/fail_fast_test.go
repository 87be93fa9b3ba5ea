package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/app"
	"github.com/vk/taskgrid/internal/testutil"
)

// TestErrorHandling_FailingTask_HaltsRun validates that a failure stops the
// run after the current round: tasks already in that round finish, but no
// dependent is dispatched.
func TestErrorHandling_FailingTask_HaltsRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	workflowHCL := `
		task "a" {
		  type   = "record"
		  config = { fail = true }
		}
		task "sibling" {
		  type   = "record"
		  config = { sleep = 0.05 }
		}
		task "b" {
		  type       = "record"
		  depends_on = ["a"]
		}
		task "c" {
		  type       = "record"
		  depends_on = ["sibling"]
		}
	`
	recorder := testutil.NewRecorderModule(nil)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": workflowHCL}, recorder)

	// --- Assert ---
	require.ErrorIs(t, result.Err, app.ErrRunFailed)
	assert.Contains(t, result.Err.Error(), "a failed")
	assert.True(t, recorder.Ran("sibling"), "a task in the failing round should still complete")
	assert.False(t, recorder.Ran("b"))
	assert.False(t, recorder.Ran("c"))
	testutil.AssertTaskNotDispatched(t, result, "b")
	testutil.AssertTaskNotDispatched(t, result, "c")

	outcome := result.App.Workflow().LastRun()
	require.NotNil(t, outcome)
	assert.Equal(t, "a", outcome.HaltedBy)
	assert.Equal(t, []string{"b", "c"}, outcome.Unattempted)
	assert.Contains(t, result.LogOutput, "Not run: [b c]")
}
