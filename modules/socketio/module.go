// Package socketio connects to a Socket.IO server, optionally emits an
// event and waits for a reply event.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/internal/task"
	"github.com/vk/taskgrid/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const defaultTimeout = 10 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the task config.
type Input struct {
	URL                string    `cty:"url"`
	Namespace          string    `cty:"namespace"`
	OnEvent            string    `cty:"on_event"`
	EmitEvent          string    `cty:"emit_event"`
	EmitData           cty.Value `cty:"emit_data"`
	Timeout            string    `cty:"timeout"`
	InsecureSkipVerify bool      `cty:"insecure_skip_verify"`
}

var inputs = map[string]*registry.InputSpec{
	"url":                  registry.Required(cty.String),
	"namespace":            registry.Optional(cty.String, cty.StringVal("/")),
	"on_event":             registry.Required(cty.String),
	"emit_event":           registry.Optional(cty.String, cty.StringVal("")),
	"emit_data":            registry.Optional(cty.DynamicPseudoType, cty.NullVal(cty.DynamicPseudoType)),
	"timeout":              registry.Optional(cty.String, cty.StringVal("10s")),
	"insecure_skip_verify": registry.Optional(cty.Bool, cty.False),
}

// opResult passes the outcome of the event handlers back to the waiter.
type opResult struct {
	data any
	err  error
}

// OnRunSocketIO is the handler for the 'socketio' task type.
func OnRunSocketIO(ctx context.Context, _ *task.Input, input *Input) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("url", input.URL, "onEvent", input.OnEvent, "emitEvent", input.EmitEvent)
	logger.Debug("Handler started.")
	defer logger.Debug("Handler finished.")

	timeout, err := config.ParseTimeout(input.Timeout)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: %w", registry.ErrInvalidConfig, err)
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return cty.NilVal, fmt.Errorf("%w: url %q must be absolute", registry.ErrInvalidConfig, input.URL)
	}

	var emitData any
	if !input.EmitData.IsNull() {
		if emitData, err = value.ToGo(input.EmitData); err != nil {
			return cty.NilVal, fmt.Errorf("%w: emit_data: %w", registry.ErrInvalidConfig, err)
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host), opts)
	io := manager.Socket(input.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	var connected atomic.Bool
	done := make(chan opResult, 1)
	finish := func(r opResult) {
		select {
		case done <- r:
		default:
		}
	}

	io.On(types.EventName("connect"), func(...any) {
		connected.Store(true)
		logger.Info("Successfully connected.", "namespace", input.Namespace, "sid", io.Id())
		if input.EmitEvent != "" {
			logger.Info("Emitting event.", "event", input.EmitEvent)
			io.Emit(input.EmitEvent, emitData)
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = fmt.Errorf("connection failed: %w", e)
			}
		}
		finish(opResult{err: err})
	})
	io.On(types.EventName(input.OnEvent), func(data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		finish(opResult{data: payload})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if connected.Load() {
			return cty.NilVal, fmt.Errorf("timed out after connecting while waiting for event '%s'", input.OnEvent)
		}
		return cty.NilVal, errors.New("timed out while waiting for initial connection")
	case res := <-done:
		if res.err != nil {
			return cty.NilVal, res.err
		}
		data, err := value.FromGo(res.data)
		if err != nil {
			return cty.NilVal, fmt.Errorf("decoding '%s' payload: %w", input.OnEvent, err)
		}
		return cty.ObjectVal(map[string]cty.Value{"response_data": data}), nil
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	registry.RegisterHandler(r, "socketio", inputs, OnRunSocketIO)
}
