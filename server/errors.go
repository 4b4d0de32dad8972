package server

import (
	"errors"

	"github.com/felixgeelhaar/asus-router-mcp/protocol"
	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// ToRPCError translates a handler error into its wire form.
//
//   - *protocol.Error passes through unchanged.
//   - *router.Error carries its kind's code, and its name and payload excerpt
//     as data.
//   - router.ErrInvalidValue (a rejected MAC or address argument) is
//     InvalidParams with the original message.
//   - Anything else is InternalError with the message as data.
func ToRPCError(err error) *protocol.Error {
	var rpcErr *protocol.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var rerr *router.Error
	if errors.As(err, &rerr) {
		return &protocol.Error{
			Code:    rerr.Kind.Code(),
			Message: rerr.Error(),
			Data:    protocol.DomainData{Name: rerr.Kind.Name(), Payload: rerr.Payload},
		}
	}

	if errors.Is(err, router.ErrInvalidValue) {
		return protocol.NewInvalidParams(err.Error())
	}

	return protocol.NewInternalError("Internal error").WithData(err.Error())
}
