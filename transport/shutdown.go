package transport

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultShutdownTimeout bounds how long the HTTP transport waits for
// in-flight requests once its context is canceled.
const DefaultShutdownTimeout = 10 * time.Second

// drainer tracks in-flight HTTP requests. Once draining starts new requests
// are refused with 503 and Wait returns when the rest have finished.
type drainer struct {
	draining atomic.Bool
	inFlight atomic.Int64

	mu   sync.Mutex
	idle chan struct{}
}

func newDrainer() *drainer {
	return &drainer{}
}

// track reports false when the request must be refused.
func (d *drainer) track() bool {
	if d.draining.Load() {
		return false
	}
	d.inFlight.Add(1)
	if d.draining.Load() {
		d.done()
		return false
	}
	return true
}

func (d *drainer) done() {
	if d.inFlight.Add(-1) == 0 && d.draining.Load() {
		d.mu.Lock()
		if d.idle != nil {
			select {
			case <-d.idle:
			default:
				close(d.idle)
			}
		}
		d.mu.Unlock()
	}
}

// InFlight returns the number of requests currently being handled.
func (d *drainer) InFlight() int64 {
	return d.inFlight.Load()
}

// Wait starts draining and blocks until no request is in flight or ctx ends.
func (d *drainer) Wait(ctx context.Context) error {
	d.mu.Lock()
	if d.idle == nil {
		d.idle = make(chan struct{})
	}
	idle := d.idle
	d.draining.Store(true)
	if d.inFlight.Load() == 0 {
		select {
		case <-idle:
		default:
			close(idle)
		}
	}
	d.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// middleware refuses requests while draining and counts the rest.
func (d *drainer) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !d.track() {
			w.Header().Set("Connection", "close")
			http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
			return
		}
		defer d.done()
		next.ServeHTTP(w, r)
	})
}
