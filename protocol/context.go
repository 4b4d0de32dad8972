package protocol

import (
	"context"
	"maps"
)

type metaKey struct{}

// Metadata keys set by the transports.
const (
	MetaTransport  = "transport"
	MetaRemoteAddr = "remote_addr"
)

// RequestMeta carries which transport received a line and, for network
// transports, the peer host. The rate limiter keys on MetaRemoteAddr.
type RequestMeta map[string]string

// GetRequestMeta returns one metadata value, or "" when unset.
func GetRequestMeta(ctx context.Context, key string) string {
	meta, _ := ctx.Value(metaKey{}).(RequestMeta)
	return meta[key]
}

// SetRequestMeta returns a context carrying key=value on top of any
// metadata already present. The parent's map is never mutated.
func SetRequestMeta(ctx context.Context, key, value string) context.Context {
	parent, _ := ctx.Value(metaKey{}).(RequestMeta)
	meta := maps.Clone(parent)
	if meta == nil {
		meta = make(RequestMeta, 1)
	}
	meta[key] = value
	return context.WithValue(ctx, metaKey{}, meta)
}
