package integration_tests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/app"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/testutil"
)

func TestErrorHandling_TaskTimeout_FailsRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	workflowYAML := `
tasks:
  slow:
    type: record
    timeout: 50ms
    config:
      sleep: 5
  next:
    type: record
    depends_on: [slow]
`
	recorder := testutil.NewRecorderModule(nil)

	// --- Act ---
	start := time.Now()
	result := testutil.RunIntegrationTest(t, map[string]string{"slow.yml": workflowYAML}, recorder)
	elapsed := time.Since(start)

	// --- Assert ---
	require.ErrorIs(t, result.Err, app.ErrRunFailed)
	assert.Less(t, elapsed, 3*time.Second, "timeout did not cut the task short")
	assert.False(t, recorder.Ran("next"))
	assert.Contains(t, result.LogOutput, "error_kind=timeout")

	res := result.App.Workflow().LastRun().Results["slow"]
	assert.ErrorIs(t, res.Err, task.ErrTimeout)
}
