// Package s3 transfers files through pre-signed S3 URLs.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

// ErrUnknownAction is returned for an action other than upload or download.
var ErrUnknownAction = errors.New("unknown s3 action")

// Module implements the registry.Module interface for this package.
// A nil Client uses http.DefaultClient.
type Module struct {
	Client *http.Client
}

// Input defines the task config.
type Input struct {
	Action          string `cty:"action"`
	SourcePath      string `cty:"source_path"`
	UploadURL       string `cty:"upload_url"`
	DownloadURL     string `cty:"download_url"`
	DestinationPath string `cty:"destination_path"`
}

var inputs = map[string]*registry.InputSpec{
	"action":           registry.Required(cty.String),
	"source_path":      registry.Optional(cty.String, cty.StringVal("")),
	"upload_url":       registry.Optional(cty.String, cty.StringVal("")),
	"download_url":     registry.Optional(cty.String, cty.StringVal("")),
	"destination_path": registry.Optional(cty.String, cty.StringVal("")),
}

func (m *Module) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return http.DefaultClient
}

func (m *Module) onRun(ctx context.Context, _ *task.Input, input *Input) (cty.Value, error) {
	switch strings.ToLower(input.Action) {
	case "upload":
		if input.SourcePath == "" || input.UploadURL == "" {
			return cty.NilVal, fmt.Errorf("%w: upload requires source_path and upload_url", registry.ErrInvalidConfig)
		}
		return m.upload(ctx, input)
	case "download":
		if input.DownloadURL == "" || input.DestinationPath == "" {
			return cty.NilVal, fmt.Errorf("%w: download requires download_url and destination_path", registry.ErrInvalidConfig)
		}
		return m.download(ctx, input)
	default:
		return cty.NilVal, fmt.Errorf("%w: %q", ErrUnknownAction, input.Action)
	}
}

func (m *Module) upload(ctx context.Context, input *Input) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(input.SourcePath)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to open source file '%s': %w", input.SourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to get file stats for '%s': %w", input.SourcePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, input.UploadURL, file)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to create S3 upload request: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(input.SourcePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading file to S3.", "source", input.SourcePath, "size", stat.Size(), "contentType", contentType)
	resp, err := m.client().Do(req)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cty.NilVal, fmt.Errorf("S3 upload failed with status: %s", resp.Status)
	}
	logger.Info("Successfully uploaded file.", "status", resp.Status)
	return result(resp.Status, stat.Size()), nil
}

func (m *Module) download(ctx context.Context, input *Input) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("action", "download")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.DownloadURL, nil)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to create S3 download request: %w", err)
	}
	resp, err := m.client().Do(req)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to execute S3 download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cty.NilVal, fmt.Errorf("S3 download failed with status: %s", resp.Status)
	}

	if dir := filepath.Dir(input.DestinationPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cty.NilVal, fmt.Errorf("failed to create destination directory: %w", err)
		}
	}
	file, err := os.Create(input.DestinationPath)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to create destination file '%s': %w", input.DestinationPath, err)
	}
	n, err := io.Copy(file, resp.Body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to write destination file '%s': %w", input.DestinationPath, err)
	}

	logger.Info("Successfully downloaded file.", "destination", input.DestinationPath, "size", n)
	return result(resp.Status, n), nil
}

func result(status string, n int64) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"success": cty.True,
		"status":  cty.StringVal(status),
		"bytes":   cty.NumberIntVal(n),
	})
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "s3", inputs, m.onRun)
}
