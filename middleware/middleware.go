package middleware

// DefaultStack returns the middleware every transport runs: panic recovery,
// request IDs and request logging.
func DefaultStack(logger Logger) []Middleware {
	return []Middleware{
		Recover(),
		RequestID(),
		Logging(logger),
	}
}
