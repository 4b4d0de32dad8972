// Package router defines the value types, records and error taxonomy of the
// ASUS router management domain.
//
// Values such as MAC and IPAddress can only be obtained through their Parse
// constructors, so a record holding one always holds a valid one. Records are
// assembled by package parse from raw router text and are not mutated after
// construction.
//
// Every router-side failure is an *Error carrying a Kind. Each Kind maps to a
// stable JSON-RPC error code and name:
//
//	KindAuthFailed       -32001  ROUTER_AUTH_FAILED
//	KindCommError        -32002  ROUTER_COMM_ERROR
//	KindParseError       -32003  ROUTER_PARSE_ERROR
//	KindClientNotFound   -32004  CLIENT_NOT_FOUND
//	KindInvalidResponse  -32005  INVALID_RESPONSE
//	KindNetworkTimeout   -32006  NETWORK_TIMEOUT
//	KindInvalidCommand   -32007  INVALID_COMMAND
//	KindInvalidParameter -32008  INVALID_PARAMETER
//
// Callers branch on the kind with errors.Is against the Err sentinels or with
// KindOf.
package router
