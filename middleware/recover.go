package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/felixgeelhaar/asus-router-mcp/protocol"
)

// PanicHandler is called when a panic is recovered.
type PanicHandler func(ctx context.Context, req *protocol.Request, panicVal any) (*protocol.Response, error)

// Recover returns middleware that turns a panic in a handler into an
// InternalError, so one bad request never stops the serve loop.
func Recover() Middleware {
	return RecoverWithHandler(defaultPanicHandler)
}

// RecoverWithLogger is Recover that also logs the panic and its stack.
func RecoverWithLogger(logger Logger) Middleware {
	return RecoverWithHandler(func(ctx context.Context, req *protocol.Request, panicVal any) (*protocol.Response, error) {
		logger.Error("handler panicked",
			F("method", req.Method),
			F("panic", fmt.Sprint(panicVal)),
			F("stack", string(debug.Stack())),
		)
		return defaultPanicHandler(ctx, req, panicVal)
	})
}

// RecoverWithHandler returns middleware that catches panics and calls handler.
func RecoverWithHandler(handler PanicHandler) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (resp *protocol.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp, err = handler(ctx, req, r)
				}
			}()
			return next(ctx, req)
		}
	}
}

func defaultPanicHandler(_ context.Context, _ *protocol.Request, panicVal any) (*protocol.Response, error) {
	return nil, protocol.NewInternalError("Internal error").WithData(fmt.Sprintf("panic: %v", panicVal))
}
