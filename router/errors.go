package router

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Kind classifies a router-side failure. Each kind has a stable wire code.
type Kind int

const (
	KindAuthFailed Kind = iota + 1
	KindCommError
	KindParseError
	KindClientNotFound
	KindInvalidResponse
	KindNetworkTimeout
	KindInvalidCommand
	KindInvalidParameter
)

var kindInfo = map[Kind]struct {
	code    int
	name    string
	message string
}{
	KindAuthFailed:       {-32001, "ROUTER_AUTH_FAILED", "Failed to authenticate with router"},
	KindCommError:        {-32002, "ROUTER_COMM_ERROR", "Communication error with router"},
	KindParseError:       {-32003, "ROUTER_PARSE_ERROR", "Failed to parse router response"},
	KindClientNotFound:   {-32004, "CLIENT_NOT_FOUND", "Client with specified MAC address not found"},
	KindInvalidResponse:  {-32005, "INVALID_RESPONSE", "Invalid response from router"},
	KindNetworkTimeout:   {-32006, "NETWORK_TIMEOUT", "Network timeout while communicating with router"},
	KindInvalidCommand:   {-32007, "INVALID_COMMAND", "Invalid command or operation"},
	KindInvalidParameter: {-32008, "INVALID_PARAMETER", "Invalid parameter value"},
}

// Kinds lists every kind in code order.
func Kinds() []Kind {
	return []Kind{
		KindAuthFailed, KindCommError, KindParseError, KindClientNotFound,
		KindInvalidResponse, KindNetworkTimeout, KindInvalidCommand, KindInvalidParameter,
	}
}

// Code returns the JSON-RPC error code for k.
func (k Kind) Code() int { return kindInfo[k].code }

// Name returns the stable upper-case name for k.
func (k Kind) Name() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// DefaultMessage returns the human description of k.
func (k Kind) DefaultMessage() string { return kindInfo[k].message }

func (k Kind) String() string { return k.Name() }

// Error is a typed router failure.
type Error struct {
	Kind    Kind
	Message string
	// Payload is a bounded excerpt of the router text that caused the failure.
	Payload string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.DefaultMessage()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrAuthFailed      = &Error{Kind: KindAuthFailed}
	ErrCommError       = &Error{Kind: KindCommError}
	ErrParse           = &Error{Kind: KindParseError}
	ErrClientNotFound  = &Error{Kind: KindClientNotFound}
	ErrInvalidResponse = &Error{Kind: KindInvalidResponse}
	ErrInvalidCommand  = &Error{Kind: KindInvalidCommand}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind, true
	}
	return 0, false
}

// AuthFailed reports a login failure.
func AuthFailed(msg string, cause error) *Error {
	return &Error{Kind: KindAuthFailed, Message: msg, Cause: cause}
}

// CommError reports a transport failure talking to the router.
func CommError(msg string, cause error) *Error {
	return &Error{Kind: KindCommError, Message: msg, Cause: cause}
}

// ParseFailure reports router text that did not have the expected shape.
func ParseFailure(msg, payload string, cause error) *Error {
	return &Error{Kind: KindParseError, Message: msg, Payload: Excerpt(payload), Cause: cause}
}

// ClientNotFound reports a lookup with no matching client.
func ClientNotFound(mac MAC) *Error {
	return &Error{
		Kind:    KindClientNotFound,
		Message: fmt.Sprintf("Client not found with MAC address: %s", mac.Normalized()),
	}
}

// InvalidResponse reports an unexpected HTTP status from the router.
func InvalidResponse(msg string) *Error {
	return &Error{Kind: KindInvalidResponse, Message: msg}
}

// InvalidCommand reports a command rejected by policy.
func InvalidCommand(msg string) *Error {
	return &Error{Kind: KindInvalidCommand, Message: msg}
}

const maxExcerpt = 256

// Excerpt bounds raw router text for diagnostics.
func Excerpt(raw string) string {
	if len(raw) <= maxExcerpt {
		return raw
	}
	cut := maxExcerpt
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return raw[:cut] + "..."
}
