package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/app"
	"github.com/vk/taskgrid/internal/registry"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest writes files into a temporary directory, loads it as a
// workflow and runs it with a background context. Load errors are reported
// in the result instead of failing the test.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithConfig(context.Background(), t, app.Config{}, files, modules...)
}

// RunIntegrationTestWithConfig is RunIntegrationTest with a caller-provided
// context and app config. WorkflowPaths is always set to the temporary
// directory.
func RunIntegrationTestWithConfig(ctx context.Context, t *testing.T, cfg app.Config, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg.WorkflowPaths = []string{dir}
	cfg.LogLevel = "debug"
	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &app.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("TASKGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	testApp, err := app.NewApp(logBuffer, validated, modules...)
	if err != nil {
		return &HarnessResult{LogOutput: logBuffer.String(), Err: err}
	}

	runErr := testApp.Run(ctx)
	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
