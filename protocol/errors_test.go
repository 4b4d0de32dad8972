package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "internal error",
			err:  &Error{Code: CodeInternalError, Message: "something went wrong"},
			want: "jsonrpc: something went wrong (code: -32603)",
		},
		{
			name: "domain code",
			err:  &Error{Code: -32002, Message: "Communication error with router"},
			want: "jsonrpc: Communication error with router (code: -32002)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err1 := NewInternalError("test")
	err2 := NewInternalError("different message")
	err3 := NewInvalidParams("test")

	if !errors.Is(err1, err2) {
		t.Error("errors with same code should match with errors.Is")
	}
	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match with errors.Is")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code int
	}{
		{"parse", NewParseError("Parse error"), CodeParseError},
		{"invalid request", NewInvalidRequest("Invalid Request"), CodeInvalidRequest},
		{"method not found", NewMethodNotFound("Method not found"), CodeMethodNotFound},
		{"invalid params", NewInvalidParams("mac is required"), CodeInvalidParams},
		{"internal", NewInternalError("Internal error"), CodeInternalError},
		{"rate limited", NewRateLimited("Rate limit exceeded"), CodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Message is empty")
			}
		})
	}
}

func TestRateLimitedOutsideDomainRange(t *testing.T) {
	if CodeRateLimited >= -32008 && CodeRateLimited <= -32001 {
		t.Errorf("CodeRateLimited = %d collides with router domain codes", CodeRateLimited)
	}
}

func TestError_WithDomainData(t *testing.T) {
	err := (&Error{Code: -32003, Message: "Failed to parse router response"}).
		WithData(DomainData{Name: "ROUTER_PARSE_ERROR", Payload: "garbage"})

	got, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Marshal error = %v", marshalErr)
	}
	want := `{"code":-32003,"message":"Failed to parse router response","data":{"name":"ROUTER_PARSE_ERROR","payload":"garbage"}}`
	if string(got) != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}
