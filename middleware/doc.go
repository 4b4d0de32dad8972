// Package middleware provides the request pipeline wrapped around the
// JSON-RPC dispatcher.
//
// Each middleware wraps the next handler, so
//
//	handler := middleware.Use(middleware.DefaultStack(logger)...).
//	    Append(middleware.RateLimit(20, 40)).
//	    Then(dispatch)
//
// runs Recover first and the dispatcher last.
//
// Available middleware:
//
//   - Recover: converts panics into InternalError responses
//   - RequestID: tags the context with a UUID
//   - Logging: one log entry per request through a Logger
//   - RateLimit, RateLimitByPeer: token buckets backed by fortify
//   - SizeLimit: rejects oversized params
//   - OTel: spans and request metrics
//
// Router operations are not cancellable once sent, so there is no timeout
// middleware; deadlines are enforced by the router client's HTTP timeouts.
package middleware
