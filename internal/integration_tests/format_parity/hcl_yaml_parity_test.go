package integration_tests

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/testutil"
	"github.com/vk/taskgrid/internal/value"
)

const parityHCL = `
workflow "parity" {}

task "seed" {
  type   = "record"
  config = { value = ["x", "y"] }
}

task_group "each" {
  type           = "record"
  for_each       = seed.value
  max_concurrent = 1
  config         = { value = "item-${item}" }
}

task "done" {
  type       = "record"
  depends_on = ["each"]
  timeout    = "5s"
  config     = { value = { ok = true, n = 2 } }
}
`

const parityYAML = `
name: parity
tasks:
  seed:
    type: record
    config:
      value: [x, y]
  done:
    type: record
    depends_on: [each]
    timeout: 5s
    config:
      value: {ok: true, n: 2}
groups:
  each:
    type: record
    for_each: seed.value
    max_concurrent: 1
    config:
      value: "item-${item}"
`

type taskSummary struct {
	Success bool
	Output  string
}

func summarize(t *testing.T, result *testutil.HarnessResult) map[string]taskSummary {
	t.Helper()
	require.NoError(t, result.Err)
	out := make(map[string]taskSummary)
	for name, res := range result.App.Workflow().LastRun().Results {
		out[name] = taskSummary{Success: res.Success, Output: value.String(res.Output)}
	}
	return out
}

// TestFormatParity_HCLAndYAML validates that the same workflow written in
// either format produces identical results.
func TestFormatParity_HCLAndYAML(t *testing.T) {
	t.Parallel()

	// --- Act ---
	fromHCL := testutil.RunIntegrationTest(t, map[string]string{"parity.hcl": parityHCL}, testutil.NewRecorderModule(nil))
	fromYAML := testutil.RunIntegrationTest(t, map[string]string{"parity.yaml": parityYAML}, testutil.NewRecorderModule(nil))

	// --- Assert ---
	hclSummary := summarize(t, fromHCL)
	yamlSummary := summarize(t, fromYAML)
	require.Len(t, hclSummary, 5, "seed, two derived tasks, the group and done")
	if diff := cmp.Diff(hclSummary, yamlSummary); diff != "" {
		t.Errorf("HCL and YAML runs differ (-hcl +yaml):\n%s", diff)
	}
	require.Equal(t, "parity", fromYAML.App.Workflow().Name())
}
