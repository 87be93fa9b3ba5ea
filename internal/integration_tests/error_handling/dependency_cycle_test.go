package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/app"
	"github.com/vk/taskgrid/internal/testutil"
	"github.com/vk/taskgrid/internal/workflow"
)

func TestErrorHandling_DependencyCycle(t *testing.T) {
	t.Parallel()

	workflowHCL := `
		task "root" {
		  type = "record"
		}
		task "a" {
		  type       = "record"
		  depends_on = ["b"]
		}
		task "b" {
		  type       = "record"
		  depends_on = ["a"]
		}
	`

	t.Run("lenient run skips the cycle", func(t *testing.T) {
		t.Parallel()
		recorder := testutil.NewRecorderModule(nil)

		result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": workflowHCL}, recorder)

		require.NoError(t, result.Err)
		assert.True(t, recorder.Ran("root"))
		assert.Equal(t, []string{"a", "b"}, result.App.Workflow().LastRun().Unattempted)
		assert.Contains(t, result.LogOutput, "cycle detected")
	})

	t.Run("strict mode rejects the workflow", func(t *testing.T) {
		t.Parallel()

		result := testutil.RunIntegrationTestWithConfig(t.Context(), t, app.Config{Strict: true},
			map[string]string{"main.hcl": workflowHCL}, testutil.NewRecorderModule(nil))

		require.Error(t, result.Err)
		assert.ErrorIs(t, result.Err, workflow.ErrCycle)
	})
}
