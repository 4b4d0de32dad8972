package protocol

import "encoding/json"

// JSONRPCVersion is stamped on every response line.
const JSONRPCVersion = "2.0"

// Request is one decoded input line. ID is kept raw so numeric and string
// ids are echoed back byte for byte.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the id member was absent. An explicit
// null id still counts as a request. Notifications are answered anyway.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is one output line. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// EmptyResult encodes as {}. It stands in for operations with nothing to
// return, since a response must carry a result or an error.
type EmptyResult struct{}

// NewResponse wraps a successful result for the request with the given id.
func NewResponse(id json.RawMessage, result any) *Response {
	if result == nil {
		result = EmptyResult{}
	}
	return &Response{JSONRPC: JSONRPCVersion, ID: id, Result: result}
}

// NewErrorResponse wraps err. Pass a nil id when the request could not be
// decoded.
func NewErrorResponse(id json.RawMessage, err *Error) *Response {
	return &Response{JSONRPC: JSONRPCVersion, ID: id, Error: err}
}
