// Package transport carries newline-delimited JSON-RPC between callers and a
// LineHandler.
//
// Stdio is the primary transport: one request per line on stdin, one
// response per line on stdout, strictly in order. HTTP (POST /rpc, GET
// /health) and WebSocket (/ws, one request per text message) exist for
// embedding callers and may invoke the handler concurrently.
//
//	t := transport.NewStdio()
//	err := t.Serve(ctx, engine)
//
// Each transport records itself and, where known, the peer address in the
// request metadata (protocol.MetaTransport, protocol.MetaRemoteAddr).
package transport
