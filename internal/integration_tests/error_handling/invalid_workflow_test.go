package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/testutil"
)

func TestErrorHandling_InvalidWorkflowIsRejected(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		files   map[string]string
		wantMsg string
	}{
		{
			name:    "hcl syntax error",
			files:   map[string]string{"main.hcl": `task "a" {`},
			wantMsg: "failed to parse HCL file",
		},
		{
			name: "unknown task type",
			files: map[string]string{"main.hcl": `
				task "a" {
				  type = "nope"
				}
			`},
			wantMsg: "nope",
		},
		{
			name: "task and group share a name",
			files: map[string]string{"main.yaml": `
tasks:
  fan:
    type: record
groups:
  fan:
    type: record
    for_each: fan.items
`},
			wantMsg: "name already used",
		},
		{
			name: "unknown config key",
			files: map[string]string{"main.hcl": `
				task "a" {
				  type   = "record"
				  config = { slep = 1 }
				}
			`},
			wantMsg: `"slep"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			result := testutil.RunIntegrationTest(t, tc.files, testutil.NewRecorderModule(nil))

			// --- Assert ---
			require.Error(t, result.Err)
			assert.Nil(t, result.App)
			assert.Contains(t, result.Err.Error(), tc.wantMsg)
		})
	}
}
