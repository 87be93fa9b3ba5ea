package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/executor"
)

// ErrRunFailed is returned by Run when a task or task group failed.
var ErrRunFailed = errors.New("workflow run failed")

// Run executes the loaded workflow once and writes the summary.
func (app *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	app.logger.Debug("App.Run method started.")

	app.healthCheckServer()
	defer func() { _ = app.closeHealthCheckServer() }()

	tasks := app.workflow.GetAllTasks()
	groups := app.workflow.GetAllTaskGroups()
	if len(tasks) == 0 && len(groups) == 0 {
		app.logger.Warn("No tasks found in workflow, execution not required.", "workflow", app.workflow.Name())
		return nil
	}

	app.status.set(stateRunning)
	app.logger.Info("🚀 Starting workflow.", "workflow", app.workflow.Name(), "tasks", len(tasks), "groups", len(groups))
	outcome, err := app.workflow.Run(ctx)
	app.status.set(stateFinished)

	if outcome != nil {
		if werr := writeSummary(app.outW, app.config.Summary, app.workflow.Name(), outcome); werr != nil {
			app.logger.Error("Failed to write summary.", "error", werr)
		}
	}
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if outcome.Termination == executor.Halted {
		return fmt.Errorf("%w: %s failed", ErrRunFailed, outcome.HaltedBy)
	}

	app.logger.Info("🏁 Workflow finished.", "workflow", app.workflow.Name(), "run_id", outcome.RunID, "rounds", outcome.Rounds)
	return nil
}
