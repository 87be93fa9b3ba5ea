package integration_tests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/testutil"
)

// TestDagConcurrency_FanOutExecution validates that tasks sharing a single
// dependency run concurrently in the same round.
func TestDagConcurrency_FanOutExecution(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	const taskCount = 4
	workflowHCL := `
		task "a" {
		  type = "record"
		}
		task "b" {
		  type       = "record"
		  depends_on = ["a"]
		  config     = { sleep = 0.1 }
		}
		task "c" {
		  type       = "record"
		  depends_on = ["a"]
		  config     = { sleep = 0.1 }
		}
		task "d" {
		  type       = "record"
		  depends_on = ["a"]
		  config     = { sleep = 0.1 }
		}
	`
	completionChan := make(chan string, taskCount)
	recorder := testutil.NewRecorderModule(completionChan)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": workflowHCL}, recorder)
	require.NoError(t, result.Err, "test run failed unexpectedly")

	// --- Assert ---
	completed := make(map[string]struct{})
	for i := 0; i < taskCount; i++ {
		select {
		case id := <-completionChan:
			completed[id] = struct{}{}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for tasks to complete. Completed %d of %d tasks. Got: %v", len(completed), taskCount, completed)
		}
	}

	require.Equal(t, taskCount, recorder.Count())
	b, c, d := recorder.Record("b"), recorder.Record("c"), recorder.Record("d")
	if !b.Overlaps(c) {
		t.Errorf("tasks b and c did not run in parallel")
	}
	if !c.Overlaps(d) {
		t.Errorf("tasks c and d did not run in parallel")
	}
	require.False(t, recorder.Record("a").End.After(b.Start), "b started before its dependency finished")
	testutil.AssertTaskSucceeded(t, result, "d")
}
