// Package http_request checks a single URL and reports whether it is live.
package http_request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/zclconf/go-cty/cty"
)

// sharedClient is reused by every request task so connections are pooled
// across a group expansion.
var sharedClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Module implements the registry.Module interface for this package.
// A nil Client uses the shared pooled client.
type Module struct {
	Client *http.Client
}

// Input defines the task config.
type Input struct {
	URL         string  `cty:"url"`
	Method      string  `cty:"method"`
	Timeout     float64 `cty:"timeout"`
	FailOnError bool    `cty:"fail_on_error"`
	IncludeBody bool    `cty:"include_body"`
}

var inputs = map[string]*registry.InputSpec{
	"url":           registry.Required(cty.String),
	"method":        registry.Optional(cty.String, cty.StringVal(http.MethodGet)),
	"timeout":       registry.Optional(cty.Number, cty.NumberIntVal(10)),
	"fail_on_error": registry.Optional(cty.Bool, cty.False),
	"include_body":  registry.Optional(cty.Bool, cty.False),
}

// maxBody caps how much of a response body is kept in the output.
const maxBody = 1 << 20

func (m *Module) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return sharedClient
}

// onRun performs the request. Transport errors and error statuses are
// reported in the output unless fail_on_error is set.
func (m *Module) onRun(ctx context.Context, _ *task.Input, input *Input) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("url", input.URL)
	if input.Timeout <= 0 {
		return cty.NilVal, fmt.Errorf("%w: timeout must be positive", registry.ErrInvalidConfig)
	}

	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(input.Timeout*float64(time.Second)))
	defer cancel()

	logger.Debug("Making HTTP request.", "method", input.Method)
	start := time.Now()
	status, body, err := m.do(reqCtx, input)
	elapsed := time.Since(start).Seconds()

	if err != nil && ctx.Err() != nil {
		return cty.NilVal, ctx.Err()
	}
	live := err == nil && status < http.StatusBadRequest
	if input.FailOnError && !live {
		if err == nil {
			err = fmt.Errorf("unexpected status %d", status)
		}
		return cty.NilVal, fmt.Errorf("request to %s failed: %w", input.URL, err)
	}

	errText := ""
	if err != nil {
		errText = err.Error()
		logger.Warn("HTTP request failed.", "error", err)
	} else {
		logger.Info("Received HTTP response.", "status", status, "response_time", elapsed)
	}

	out := map[string]cty.Value{
		"url":           cty.StringVal(input.URL),
		"status_code":   cty.NumberIntVal(int64(status)),
		"is_live":       cty.BoolVal(live),
		"response_time": cty.NumberFloatVal(elapsed),
		"error":         cty.StringVal(errText),
	}
	if input.IncludeBody {
		out["body"] = cty.StringVal(body)
	}
	return cty.ObjectVal(out), nil
}

func (m *Module) do(ctx context.Context, input *Input) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, input.Method, input.URL, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := m.client().Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, "", fmt.Errorf("request timed out after %gs", input.Timeout)
		}
		return 0, "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if !input.IncludeBody {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, "", nil
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, string(b), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "http_request", inputs, m.onRun)
}
