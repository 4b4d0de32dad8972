// Package client talks to the ASUS router's HTTP management API.
package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/asus-router-mcp/router"
)

const (
	instrumentationName = "github.com/felixgeelhaar/asus-router-mcp/client"

	loginPath = "/login.cgi"
	hookPath  = "/appGet.cgi"

	// TokenCookie is the cookie the router issues on login.
	TokenCookie = "asus_token"

	// The firmware refuses API calls from unknown user agents.
	userAgent = "asusrouter-Android-DUTUtil-1.0.0.245"

	maxBodyBytes = 4 << 20
)

// Query is a single hook request.
type Query struct {
	Hook      string
	Parameter string
}

// Encode renders q as the appGet.cgi query string.
func (q Query) Encode() string {
	v := url.Values{}
	v.Set("hook", q.Hook)
	if q.Parameter != "" {
		v.Set("parameter", q.Parameter)
	}
	return v.Encode()
}

// Client executes hook queries against one router.
// It is safe for concurrent use.
type Client struct {
	baseURL  string
	username string
	password string

	http    *http.Client
	session *Session
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	connectTimeout time.Duration
	readTimeout    time.Duration
	httpClient     *http.Client
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
}

// WithTimeouts sets the connect and read timeouts.
func WithTimeouts(connect, read time.Duration) Option {
	return func(o *clientOptions) {
		o.connectTimeout = connect
		o.readTimeout = read
	}
}

// WithHTTPClient replaces the HTTP client. Timeouts set with WithTimeouts are
// then the caller's responsibility.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithLogger sets the logger for login and hook diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// WithTracerProvider sets the provider for hook spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *clientOptions) {
		o.tracerProvider = tp
	}
}

// New creates a client for the router at baseURL, e.g. "https://192.168.1.1:8443".
func New(baseURL, username, password string, opts ...Option) *Client {
	options := clientOptions{
		connectTimeout: 5 * time.Second,
		readTimeout:    10 * time.Second,
		logger:         slog.New(slog.DiscardHandler),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = newHTTPClient(options.connectTimeout, options.readTimeout)
	}

	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		http:     httpClient,
		logger:   options.logger,
		tracer:   options.tracerProvider.Tracer(instrumentationName),
	}
	c.session = NewSession(c.login)
	return c
}

func newHTTPClient(connect, read time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: connect, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: read,
		// Routers serve a self-signed certificate on the LAN.
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		MaxIdleConns:    4,
		IdleConnTimeout: 90 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   connect + read,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Session returns the client's session manager.
func (c *Client) Session() *Session {
	return c.session
}

// ExecuteHook runs hook with an optional parameter and returns the raw body.
//
// A 401 triggers exactly one re-login and retry. Transport failures are
// reported as router.KindCommError with the cause wrapped; any other non-2xx
// status as router.KindInvalidResponse.
func (c *Client) ExecuteHook(ctx context.Context, hook, parameter string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "router.hook",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("router.hook", hook)),
	)
	defer span.End()

	body, err := c.executeHook(ctx, Query{Hook: hook, Parameter: parameter})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if kind, ok := router.KindOf(err); ok {
			span.SetAttributes(attribute.String("router.error", kind.Name()))
		}
		return "", err
	}
	span.SetAttributes(attribute.Int("router.response_bytes", len(body)))
	span.SetStatus(codes.Ok, "")
	return body, nil
}

func (c *Client) executeHook(ctx context.Context, q Query) (string, error) {
	cred, err := c.session.Ensure(ctx)
	if err != nil {
		return "", err
	}

	status, body, err := c.get(ctx, q, cred)
	if err != nil {
		return "", err
	}

	if status == http.StatusUnauthorized {
		c.logger.Warn("router rejected session, logging in again", "hook", q.Hook)
		cred, err = c.session.Refresh(ctx, cred)
		if err != nil {
			return "", err
		}
		status, body, err = c.get(ctx, q, cred)
		if err != nil {
			return "", err
		}
		if status == http.StatusUnauthorized {
			return "", router.CommError(fmt.Sprintf("hook %s: session rejected after re-login", q.Hook), nil)
		}
	}

	if status < 200 || status > 299 {
		return "", router.InvalidResponse(fmt.Sprintf("hook %s: router returned HTTP %d", q.Hook, status))
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, q Query, cred Credential) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+hookPath+"?"+q.Encode(), nil)
	if err != nil {
		return 0, "", router.CommError(fmt.Sprintf("hook %s: build request", q.Hook), err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: cred.Token})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("router request failed", "hook", q.Hook, "error", err)
		return 0, "", router.CommError(fmt.Sprintf("hook %s", q.Hook), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, "", router.CommError(fmt.Sprintf("hook %s: read response", q.Hook), err)
	}

	c.logger.Debug("router hook",
		"hook", q.Hook,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return resp.StatusCode, string(body), nil
}

// login never logs the password.
func (c *Client) login(ctx context.Context) (Credential, error) {
	v := url.Values{}
	v.Set("login_username", c.username)
	v.Set("login_authorization", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+loginPath+"?"+v.Encode(), nil)
	if err != nil {
		return Credential{}, router.AuthFailed("build login request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Credential{}, router.AuthFailed("login request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Credential{}, router.AuthFailed("read login response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Credential{}, router.AuthFailed(fmt.Sprintf("login rejected with HTTP %d", resp.StatusCode), nil)
	}

	token := ""
	for _, cookie := range resp.Cookies() {
		if cookie.Name == TokenCookie {
			token = cookie.Value
			break
		}
	}
	if token == "" {
		token = strings.TrimSpace(string(body))
	}
	if token == "" {
		return Credential{}, router.AuthFailed("login response carried no token", nil)
	}

	c.logger.Debug("router login succeeded", "user", c.username)
	return Credential{Token: token, Username: c.username}, nil
}

// Close drops the session and idle connections.
func (c *Client) Close() error {
	c.session.Close()
	c.http.CloseIdleConnections()
	return nil
}
