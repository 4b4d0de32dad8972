// Package routermcp serves an ASUS router's management API as JSON-RPC 2.0
// tools, one request per line over stdio by default.
//
// Basic usage:
//
//	cfg, err := config.Load(config.Environ(), config.Overrides{})
//	if err != nil {
//	    return err
//	}
//	app := routermcp.New(cfg, routermcp.WithLogger(logger))
//	defer app.Close()
//	return app.Serve(ctx)
package routermcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/asus-router-mcp/client"
	"github.com/felixgeelhaar/asus-router-mcp/config"
	"github.com/felixgeelhaar/asus-router-mcp/middleware"
	"github.com/felixgeelhaar/asus-router-mcp/server"
	"github.com/felixgeelhaar/asus-router-mcp/tools"
	"github.com/felixgeelhaar/asus-router-mcp/transport"
)

// Name is reported as serverInfo.name.
const Name = "asus-router-mcp"

// Version is reported as serverInfo.version. Overridden at build time.
var Version = "dev"

const instructions = "Read-only access to an ASUS router. Tools report uptime, memory, CPU, " +
	"traffic, WAN state, clients, DHCP leases and settings. Client lookups take a MAC address. " +
	"asus_router_get_nvram accepts only read commands."

// App is one configured server: a router session, the tool registry and
// the request engine.
type App struct {
	cfg     config.Config
	logger  *slog.Logger
	client  *client.Client
	service *tools.Service
	server  *server.Server
	engine  *server.Engine
}

// Option configures an App.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	httpClient     *http.Client
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	middleware     []middleware.Middleware
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHTTPClient replaces the HTTP client used to reach the router.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTracerProvider sets the provider for request and hook spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider sets the provider for request metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// WithMiddleware appends middleware after the built-in stack.
func WithMiddleware(m ...middleware.Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, m...)
	}
}

// New wires cfg into a ready App. cfg is expected to have passed Validate.
func New(cfg config.Config, opts ...Option) *App {
	o := &options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}

	clientOpts := []client.Option{
		client.WithTimeouts(cfg.Router.ConnectTimeout, cfg.Router.ReadTimeout),
		client.WithLogger(o.logger.With(slog.String("component", "client"))),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(o.httpClient))
	}
	if o.tracerProvider != nil {
		clientOpts = append(clientOpts, client.WithTracerProvider(o.tracerProvider))
	}
	c := client.New(cfg.Router.BaseURL(), cfg.Router.Username, cfg.Router.Password, clientOpts...)

	svc := tools.NewService(c, tools.WithLogger(o.logger.With(slog.String("component", "tools"))))
	srv := server.New(server.Info{Name: Name, Version: Version, Instructions: instructions})
	tools.Register(srv, svc)

	return &App{
		cfg:     cfg,
		logger:  o.logger,
		client:  c,
		service: svc,
		server:  srv,
		engine: server.NewEngine(srv,
			server.WithMiddleware(stack(cfg, o)...),
			server.WithLogger(o.logger),
		),
	}
}

// stack is recovery, request ids, logging, tracing, then the optional
// limits, then caller middleware.
func stack(cfg config.Config, o *options) []middleware.Middleware {
	mws := middleware.DefaultStack(middleware.NewSlogLogger(o.logger))

	var otelOpts []middleware.OTelOption
	if cfg.Telemetry.ServiceName != "" {
		otelOpts = append(otelOpts, middleware.WithOTelServiceName(cfg.Telemetry.ServiceName))
	}
	if o.tracerProvider != nil {
		otelOpts = append(otelOpts, middleware.WithTracerProvider(o.tracerProvider))
	}
	if o.meterProvider != nil {
		otelOpts = append(otelOpts, middleware.WithMeterProvider(o.meterProvider))
	}
	mws = append(mws, middleware.OTel(otelOpts...))

	if cfg.Server.RateLimit > 0 {
		mws = append(mws, middleware.RateLimitByPeer(cfg.Server.RateLimit, cfg.Server.RateBurst))
	}
	if cfg.Server.MaxRequestBytes > 0 {
		mws = append(mws, middleware.SizeLimit(cfg.Server.MaxRequestBytes))
	}
	return append(mws, o.middleware...)
}

// Engine returns the request engine, for embedding in another transport.
func (a *App) Engine() *server.Engine {
	return a.engine
}

// Service returns the router operations behind the tools.
func (a *App) Service() *tools.Service {
	return a.service
}

// Tools describes every registered tool in catalogue order.
func (a *App) Tools() []server.ToolInfo {
	return a.server.Tools()
}

// Serve runs the configured transport until ctx is canceled or, for stdio,
// the input ends.
func (a *App) Serve(ctx context.Context) error {
	switch a.cfg.Server.Transport {
	case config.TransportStdio:
		return a.ServeStdio(ctx)
	case config.TransportHTTP:
		return a.ServeHTTP(ctx)
	case config.TransportWebSocket:
		return a.ServeWebSocket(ctx)
	default:
		return fmt.Errorf("unknown transport %q", a.cfg.Server.Transport)
	}
}

// ServeStdio serves stdin/stdout. opts replace the default streams.
func (a *App) ServeStdio(ctx context.Context, opts ...transport.StdioOption) error {
	opts = append([]transport.StdioOption{transport.WithStdioLogger(a.logger)}, opts...)
	a.logger.Info("serving", slog.String("transport", config.TransportStdio), slog.String("router", a.cfg.Router.BaseURL()))
	return transport.NewStdio(opts...).Serve(ctx, a.engine)
}

// ServeHTTP serves POST /rpc and GET /health on the configured address.
func (a *App) ServeHTTP(ctx context.Context, opts ...transport.HTTPOption) error {
	s := a.cfg.Server
	opts = append([]transport.HTTPOption{
		transport.WithHTTPLogger(a.logger),
		transport.WithShutdownTimeout(s.ShutdownTimeout),
		transport.WithMaxBodyBytes(s.MaxRequestBytes),
		transport.WithCORSOrigins(s.CORSOrigins...),
	}, opts...)
	return transport.NewHTTP(s.Addr, opts...).Serve(ctx, a.engine)
}

// ServeWebSocket serves /ws on the configured address.
func (a *App) ServeWebSocket(ctx context.Context, opts ...transport.WebSocketOption) error {
	opts = append([]transport.WebSocketOption{transport.WithWebSocketLogger(a.logger)}, opts...)
	return transport.NewWebSocket(a.cfg.Server.Addr, opts...).Serve(ctx, a.engine)
}

// Report renders the router status report printed by --show-info.
func (a *App) Report(ctx context.Context, detailed bool) string {
	return a.service.ShowInfo(ctx, detailed)
}

// Close drops the router session.
func (a *App) Close() error {
	return a.client.Close()
}
