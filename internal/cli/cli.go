package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/taskgrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("taskgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
taskgrid - A dependency-driven task orchestrator.

Usage:
  taskgrid [options] [WORKFLOW_PATH...]

Arguments:
  WORKFLOW_PATH
    Path to a workflow file (.hcl, .yaml, .yml) or a directory of them.
    Several paths are merged into one workflow.

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Path to the workflow file or directory.")
	wFlag := flagSet.String("w", "", "Path to the workflow file or directory (shorthand).")
	formatFlag := flagSet.String("format", app.FormatAuto, "Workflow format. Options: 'auto', 'hcl' or 'yaml'.")
	summaryFlag := flagSet.String("summary", app.SummaryText, "Result summary format. Options: 'text', 'json' or 'none'.")
	strictFlag := flagSet.Bool("strict", false, "Reject cycles and unknown dependencies, and fail runs that leave tasks unresolved.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	switch {
	case *workflowFlag != "":
		paths = append(paths, *workflowFlag)
	case *wFlag != "":
		paths = append(paths, *wFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Workflow paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No workflow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		WorkflowPaths:   paths,
		Format:          strings.ToLower(*formatFlag),
		Summary:         strings.ToLower(*summaryFlag),
		Strict:          *strictFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
