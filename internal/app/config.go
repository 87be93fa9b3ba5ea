package app

import (
	"errors"
	"fmt"
	"slices"
)

// Workflow definition formats accepted by Config.Format.
const (
	FormatAuto = "auto"
	FormatHCL  = "hcl"
	FormatYAML = "yaml"
)

// Summary formats accepted by Config.Summary.
const (
	SummaryText = "text"
	SummaryJSON = "json"
	SummaryNone = "none"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
	formats    = []string{FormatAuto, FormatHCL, FormatYAML}
	summaries  = []string{SummaryText, SummaryJSON, SummaryNone}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkflowPaths []string // files or directories

	// Format selects the loader; auto decides by file extension.
	Format string
	// Summary selects how results are written after the run.
	Summary string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Strict rejects workflows with cycles or unknown dependencies before
	// running and fails runs that leave tasks unresolved.
	Strict bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.WorkflowPaths) == 0 {
		return nil, errors.New("at least one workflow path is required")
	}
	if cfg.Format == "" {
		cfg.Format = FormatAuto
	}
	if cfg.Summary == "" {
		cfg.Summary = SummaryText
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	var errs []error
	if !slices.Contains(formats, cfg.Format) {
		errs = append(errs, fmt.Errorf("invalid format %q: must be one of %v", cfg.Format, formats))
	}
	if !slices.Contains(summaries, cfg.Summary) {
		errs = append(errs, fmt.Errorf("invalid summary %q: must be one of %v", cfg.Summary, summaries))
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log-format %q: must be one of %v", cfg.LogFormat, logFormats))
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log-level %q: must be one of %v", cfg.LogLevel, logLevels))
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid healthcheck-port %d", cfg.HealthcheckPort))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
