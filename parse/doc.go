// Package parse turns raw router hook output into router records.
//
// The router answers in three shapes: semicolon-delimited scalar tables,
// flat JSON objects or arrays, and nested JSON objects keyed by client MAC.
// Every function here is pure. Malformed input is reported as a
// *router.Error of kind KindParseError that carries a bounded excerpt of the
// offending payload; no parser substitutes zero values for a failure.
//
// Optional descriptive fields fall back to fixed defaults. Identity fields
// (MAC and IP addresses) are validated and fail the parse when present but
// malformed.
package parse
