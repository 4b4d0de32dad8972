package transport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/felixgeelhaar/asus-router-mcp/protocol"
)

// Stdio serves newline-delimited JSON-RPC over stdin/stdout. Requests are
// handled strictly one at a time, in input order.
type Stdio struct {
	in     io.Reader
	out    io.Writer
	logger *slog.Logger

	mu sync.Mutex
}

// StdioOption configures a Stdio transport.
type StdioOption func(*Stdio)

// WithStdin sets a custom stdin reader.
func WithStdin(r io.Reader) StdioOption {
	return func(s *Stdio) {
		s.in = r
	}
}

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.out = w
	}
}

// WithStdioLogger sets the logger for read and write failures.
func WithStdioLogger(l *slog.Logger) StdioOption {
	return func(s *Stdio) {
		s.logger = l
	}
}

// NewStdio creates a new stdio transport.
func NewStdio(opts ...StdioOption) *Stdio {
	s := &Stdio{
		in:     os.Stdin,
		out:    os.Stdout,
		logger: discardLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Addr returns the transport address.
func (s *Stdio) Addr() string {
	return "stdio"
}

// Serve reads lines until EOF or cancellation. Blank lines are skipped.
// EOF is a clean shutdown and returns nil.
func (s *Stdio) Serve(ctx context.Context, handler LineHandler) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx = protocol.SetRequestMeta(ctx, protocol.MetaTransport, "stdio")

	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		reader := bufio.NewReader(s.in)
		for {
			line, err := reader.ReadBytes('\n')
			if len(line) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					s.logger.Warn("stdin read failed", slog.String("error", err.Error()))
					return fmt.Errorf("read stdin: %w", err)
				default:
					return nil
				}
			}
			if err := s.handleLine(ctx, handler, line); err != nil {
				return err
			}
		}
	}
}

func (s *Stdio) handleLine(ctx context.Context, handler LineHandler, line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	reply := handler.HandleLine(ctx, line)
	if reply == nil {
		return nil
	}
	return s.write(reply)
}

// write emits reply and its newline in a single Write call.
func (s *Stdio) write(reply []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, 0, len(reply)+1)
	buf = append(buf, reply...)
	buf = append(buf, '\n')
	if _, err := s.out.Write(buf); err != nil {
		s.logger.Warn("stdout write failed", slog.String("error", err.Error()))
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}
