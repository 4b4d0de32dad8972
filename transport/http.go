package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/felixgeelhaar/asus-router-mcp/protocol"
)

// Paths served by the HTTP transport.
const (
	PathRPC    = "/rpc"
	PathHealth = "/health"
)

// HTTP serves one JSON-RPC request per POST body on PathRPC.
type HTTP struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	maxBodyBytes    int64
	corsOrigins     []string
	logger          *slog.Logger

	mu         sync.RWMutex
	listenAddr string
	drain      *drainer
}

// HTTPOption configures the HTTP transport.
type HTTPOption func(*HTTP)

// WithReadTimeout sets the read timeout for HTTP requests.
func WithReadTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.readTimeout = d
	}
}

// WithWriteTimeout sets the write timeout for HTTP responses.
func WithWriteTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.writeTimeout = d
	}
}

// WithShutdownTimeout bounds the wait for in-flight requests on shutdown.
func WithShutdownTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.shutdownTimeout = d
	}
}

// WithMaxBodyBytes limits request bodies. Zero means unlimited.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(h *HTTP) {
		h.maxBodyBytes = n
	}
}

// WithCORSOrigins enables CORS for the given origins.
func WithCORSOrigins(origins ...string) HTTPOption {
	return func(h *HTTP) {
		h.corsOrigins = origins
	}
}

// WithHTTPLogger sets the transport logger.
func WithHTTPLogger(l *slog.Logger) HTTPOption {
	return func(h *HTTP) {
		h.logger = l
	}
}

// NewHTTP creates a new HTTP transport.
func NewHTTP(addr string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		addr:            addr,
		readTimeout:     30 * time.Second,
		writeTimeout:    30 * time.Second,
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          discardLogger(),
		drain:           newDrainer(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Addr returns the configured address.
func (h *HTTP) Addr() string {
	return h.addr
}

// ListenAddr returns the actual address the server is listening on.
func (h *HTTP) ListenAddr() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.listenAddr
}

// Serve listens on addr until ctx is canceled, then drains in-flight
// requests for at most the shutdown timeout.
func (h *HTTP) Serve(ctx context.Context, handler LineHandler) error {
	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	h.mu.Lock()
	h.listenAddr = listener.Addr().String()
	h.mu.Unlock()

	srv := &http.Server{
		Handler:      h.Handler(handler),
		ReadTimeout:  h.readTimeout,
		WriteTimeout: h.writeTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	h.logger.Info("http transport listening", slog.String("addr", h.ListenAddr()))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	if err := h.drain.Wait(shutdownCtx); err != nil {
		h.logger.Warn("shutdown with requests in flight", slog.Int64("in_flight", h.drain.InFlight()))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// Handler returns the HTTP handler serving PathRPC and PathHealth.
func (h *HTTP) Handler(handler LineHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(PathHealth, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc(PathRPC, func(w http.ResponseWriter, r *http.Request) {
		h.handleRPC(w, r, handler)
	})

	return corsHandler(h.corsOrigins, h.drain.middleware(mux))
}

func (h *HTTP) handleRPC(w http.ResponseWriter, r *http.Request, handler LineHandler) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body := io.Reader(r.Body)
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	line, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Warn("read request body", slog.String("error", err.Error()))
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	ctx := protocol.SetRequestMeta(r.Context(), protocol.MetaTransport, "http")
	ctx = protocol.SetRequestMeta(ctx, protocol.MetaRemoteAddr, remoteHost(r.RemoteAddr))

	reply := handler.HandleLine(ctx, line)
	if reply == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(reply)
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
