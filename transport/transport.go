package transport

import (
	"context"
	"log/slog"
)

// LineHandler answers one encoded JSON-RPC message with one encoded
// response. A nil reply means nothing is written back.
type LineHandler interface {
	HandleLine(ctx context.Context, line []byte) []byte
}

// LineHandlerFunc is an adapter to allow ordinary functions as handlers.
type LineHandlerFunc func(ctx context.Context, line []byte) []byte

// HandleLine calls f(ctx, line).
func (f LineHandlerFunc) HandleLine(ctx context.Context, line []byte) []byte {
	return f(ctx, line)
}

// Transport defines the communication layer interface.
type Transport interface {
	// Serve starts the transport, blocking until ctx is canceled, the input
	// is exhausted or an error occurs.
	Serve(ctx context.Context, handler LineHandler) error

	// Addr returns the transport's address description.
	Addr() string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
