package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/asus-router-mcp/protocol"
)

// echoHandler replies with the line prefixed by its call number.
type echoHandler struct {
	mu    sync.Mutex
	lines []string
	metas []string
}

func (h *echoHandler) HandleLine(ctx context.Context, line []byte) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = append(h.lines, string(line))
	h.metas = append(h.metas, protocol.GetRequestMeta(ctx, protocol.MetaTransport))
	return []byte("ok:" + string(line))
}

func TestNewStdio(t *testing.T) {
	in := &bytes.Buffer{}
	out := &bytes.Buffer{}

	s := NewStdio(WithStdin(in), WithStdout(out))

	if s.Addr() != "stdio" {
		t.Errorf("Addr() = %q, want %q", s.Addr(), "stdio")
	}
	if s.in != in || s.out != out {
		t.Error("expected custom streams to be used")
	}
}

func TestStdio_Serve(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLines []string
		wantOut   string
	}{
		{
			name:      "single line",
			input:     "{\"id\":1}\n",
			wantLines: []string{`{"id":1}`},
			wantOut:   "ok:{\"id\":1}\n",
		},
		{
			name:      "in order",
			input:     "a\nb\nc\n",
			wantLines: []string{"a", "b", "c"},
			wantOut:   "ok:a\nok:b\nok:c\n",
		},
		{
			name:      "blank lines skipped",
			input:     "\n  \na\n\r\n\nb\n",
			wantLines: []string{"a", "b"},
			wantOut:   "ok:a\nok:b\n",
		},
		{
			name:      "last line without newline",
			input:     "a\nb",
			wantLines: []string{"a", "b"},
			wantOut:   "ok:a\nok:b\n",
		},
		{
			name:      "crlf trimmed",
			input:     "a\r\n",
			wantLines: []string{"a"},
			wantOut:   "ok:a\n",
		},
		{
			name:    "empty input",
			input:   "",
			wantOut: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &echoHandler{}
			out := &bytes.Buffer{}
			s := NewStdio(WithStdin(strings.NewReader(tt.input)), WithStdout(out))

			if err := s.Serve(context.Background(), h); err != nil {
				t.Fatalf("Serve() error = %v", err)
			}
			if strings.Join(h.lines, "|") != strings.Join(tt.wantLines, "|") {
				t.Errorf("lines = %q, want %q", h.lines, tt.wantLines)
			}
			if out.String() != tt.wantOut {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestStdio_LongLine(t *testing.T) {
	long := strings.Repeat("x", 1<<20)
	h := &echoHandler{}
	out := &bytes.Buffer{}
	s := NewStdio(WithStdin(strings.NewReader(long+"\n")), WithStdout(out))

	if err := s.Serve(context.Background(), h); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	if len(h.lines) != 1 || len(h.lines[0]) != len(long) {
		t.Errorf("long line was not delivered whole")
	}
}

func TestStdio_RequestMeta(t *testing.T) {
	h := &echoHandler{}
	s := NewStdio(WithStdin(strings.NewReader("a\n")), WithStdout(io.Discard))

	if err := s.Serve(context.Background(), h); err != nil {
		t.Fatal(err)
	}
	if len(h.metas) != 1 || h.metas[0] != "stdio" {
		t.Errorf("transport meta = %v, want stdio", h.metas)
	}
}

func TestStdio_NilReply(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewStdio(WithStdin(strings.NewReader("a\n")), WithStdout(out))

	err := s.Serve(context.Background(), LineHandlerFunc(func(context.Context, []byte) []byte { return nil }))
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want empty", out.String())
	}
}

// countingWriter records how many Write calls it receives.
type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestStdio_OneWritePerResponse(t *testing.T) {
	out := &countingWriter{}
	s := NewStdio(WithStdin(strings.NewReader("a\nb\n")), WithStdout(out))

	if err := s.Serve(context.Background(), &echoHandler{}); err != nil {
		t.Fatal(err)
	}
	if out.writes != 2 {
		t.Errorf("writes = %d, want 2", out.writes)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestStdio_WriteError(t *testing.T) {
	s := NewStdio(WithStdin(strings.NewReader("a\nb\n")), WithStdout(failingWriter{}))

	err := s.Serve(context.Background(), &echoHandler{})
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Errorf("Serve() error = %v, want write failure", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestStdio_ReadError(t *testing.T) {
	s := NewStdio(WithStdin(failingReader{}), WithStdout(io.Discard))

	err := s.Serve(context.Background(), &echoHandler{})
	if err == nil || !strings.Contains(err.Error(), "device gone") {
		t.Errorf("Serve() error = %v, want read failure", err)
	}
}

func TestStdio_ContextCancellation(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	s := NewStdio(WithStdin(pr), WithStdout(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, &echoHandler{}) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
