// Package middleware wraps the request dispatcher with cross-cutting behavior.
package middleware

import (
	"context"

	"github.com/felixgeelhaar/asus-router-mcp/protocol"
)

// HandlerFunc handles one decoded JSON-RPC request.
type HandlerFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// Middleware wraps a handler with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middleware so that Chain(m1, m2, m3) yields m1 wrapping m2
// wrapping m3 wrapping the final handler.
func Chain(middlewares ...Middleware) Middleware {
	return func(final HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// Stack is an ordered, appendable list of middleware.
type Stack struct {
	middlewares []Middleware
}

// Use starts a stack with the given middleware.
func Use(middlewares ...Middleware) *Stack {
	return &Stack{middlewares: middlewares}
}

// Append adds middleware to the end of the stack.
func (s *Stack) Append(middlewares ...Middleware) *Stack {
	s.middlewares = append(s.middlewares, middlewares...)
	return s
}

// Len reports the number of middleware in the stack.
func (s *Stack) Len() int {
	return len(s.middlewares)
}

// Then wraps handler with the stack.
func (s *Stack) Then(handler HandlerFunc) HandlerFunc {
	return Chain(s.middlewares...)(handler)
}
