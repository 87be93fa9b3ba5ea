package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertTaskSucceeded checks the log output for the success line of the
// named task.
func AssertTaskSucceeded(t *testing.T, result *HarnessResult, name string) {
	t.Helper()
	require.True(t, hasLogLine(result.LogOutput, "Task succeeded.", name),
		"expected a success log line for task %q", name)
}

// AssertTaskNotDispatched checks that the named task was never handed to a
// runner.
func AssertTaskNotDispatched(t *testing.T, result *HarnessResult, name string) {
	t.Helper()
	require.False(t, hasLogLine(result.LogOutput, "Dispatching task.", name),
		"task %q was dispatched but should not have been", name)
}

func hasLogLine(logs, msg, name string) bool {
	attr := "task=" + name
	for _, line := range strings.Split(logs, "\n") {
		if !strings.Contains(line, msg) {
			continue
		}
		for _, field := range strings.Fields(line) {
			if field == attr {
				return true
			}
		}
	}
	return false
}
