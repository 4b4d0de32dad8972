// Package protocol defines the JSON-RPC 2.0 message types and error codes
// spoken on the server's input and output channels.
//
// Each input line decodes into a Request; each produces exactly one Response
// carrying either a result or an error.
//
// # Error Codes
//
// Standard JSON-RPC 2.0 codes:
//
//	CodeParseError     = -32700  // Invalid JSON
//	CodeInvalidRequest = -32600  // Missing or empty method
//	CodeMethodNotFound = -32601  // Reserved, not emitted
//	CodeInvalidParams  = -32602  // Bad parameters and unknown methods
//	CodeInternalError  = -32603  // Unexpected failures
//
// Router failures use the domain codes -32001 through -32008 defined by
// package router, with DomainData naming the failure. CodeRateLimited
// (-32009) is emitted only when rate limiting is enabled.
package protocol
