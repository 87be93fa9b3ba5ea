package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/executor"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/workflow"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	model      *config.Model
	workflow   *workflow.Workflow
	httpServer *http.Server
	status     *runStatus
}

// NewApp is the constructor for the main application. It loads the workflow
// definition and builds a runnable workflow with its own isolated logger and
// registry. When no modules are given the core modules are used.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "types", reg.Types(), "functions", reg.Functions())

	loader, err := newLoader(cfg.Format, cfg.WorkflowPaths)
	if err != nil {
		return nil, err
	}
	model, err := loader.Load(ctx, cfg.WorkflowPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	logger.Debug("Workflow definition loaded.", "workflow", model.Name, "tasks", len(model.Tasks), "groups", len(model.Groups))

	wf, err := workflow.FromModel(model, reg, workflow.WithExecutorOptions(executor.Options{
		FailOnUnresolved: cfg.Strict,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow: %w", err)
	}

	if err := wf.Validate(); err != nil {
		if cfg.Strict {
			return nil, fmt.Errorf("invalid workflow: %w", err)
		}
		logger.Warn("Workflow has unresolvable dependencies; affected tasks will not run.", "error", err)
	}

	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		model:    model,
		workflow: wf,
		status:   &runStatus{},
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (app *App) Registry() *registry.Registry {
	return app.registry
}

// Workflow returns the workflow built from the loaded definition.
func (app *App) Workflow() *workflow.Workflow {
	return app.workflow
}
