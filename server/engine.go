package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/felixgeelhaar/asus-router-mcp/middleware"
	"github.com/felixgeelhaar/asus-router-mcp/protocol"
)

// Engine turns one raw request line into one raw response line.
// It is safe for concurrent use.
type Engine struct {
	handler middleware.HandlerFunc
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	middleware []middleware.Middleware
	logger     *slog.Logger
}

// WithMiddleware appends middleware around the dispatcher.
func WithMiddleware(m ...middleware.Middleware) EngineOption {
	return func(c *engineConfig) {
		c.middleware = append(c.middleware, m...)
	}
}

// WithLogger sets the logger used for encoding failures and notification traces.
func WithLogger(l *slog.Logger) EngineOption {
	return func(c *engineConfig) {
		c.logger = l
	}
}

// NewEngine wraps srv.Dispatch with the configured middleware.
func NewEngine(srv *Server, opts ...EngineOption) *Engine {
	cfg := &engineConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Engine{
		handler: middleware.Use(cfg.middleware...).Then(srv.Dispatch),
		logger:  cfg.logger,
	}
}

// HandleLine decodes line, dispatches it and returns the encoded response
// without a trailing newline. It always returns exactly one response, even
// for notifications.
func (e *Engine) HandleLine(ctx context.Context, line []byte) []byte {
	line = bytes.TrimSpace(line)
	var req protocol.Request
	if err := json.Unmarshal(line, &req); err != nil {
		return e.encode(protocol.NewErrorResponse(nil, protocol.NewParseError("Parse error").WithData(err.Error())))
	}
	return e.encode(e.Handle(ctx, &req))
}

// Handle runs an already decoded request through the middleware chain and
// maps any error to an error response.
func (e *Engine) Handle(ctx context.Context, req *protocol.Request) *protocol.Response {
	if req.Method == "" {
		return protocol.NewErrorResponse(req.ID, protocol.NewInvalidRequest("Invalid Request").WithData("method is required"))
	}

	resp, err := e.handler(ctx, req)
	if err != nil {
		return protocol.NewErrorResponse(req.ID, ToRPCError(err))
	}
	if resp == nil {
		resp = protocol.NewResponse(req.ID, nil)
	}
	resp.JSONRPC = protocol.JSONRPCVersion
	resp.ID = req.ID
	if resp.Error == nil && resp.Result == nil {
		resp.Result = protocol.EmptyResult{}
	}
	if req.IsNotification() {
		e.logger.Debug("answering notification", slog.String("method", req.Method))
	}
	return resp
}

func (e *Engine) encode(resp *protocol.Response) []byte {
	data, err := json.Marshal(resp)
	if err == nil {
		return data
	}
	e.logger.Error("failed to encode response", slog.String("error", err.Error()))

	fallback := protocol.NewErrorResponse(resp.ID, protocol.NewInternalError("Internal error").WithData(err.Error()))
	data, err = json.Marshal(fallback)
	if err != nil {
		// The id itself is unencodable.
		return []byte(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"Internal error"}}`)
	}
	return data
}
