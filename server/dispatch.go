package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/asus-router-mcp/protocol"
)

// Dispatch answers one request. Tools are invoked directly by method name
// or through tools/call. An unknown method is InvalidParams with the method
// name as data; MethodNotFound is never returned.
func (s *Server) Dispatch(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	switch req.Method {
	case protocol.MethodInitialize:
		return s.handleInitialize(req)
	case protocol.MethodInitialized, protocol.MethodPing:
		return protocol.NewResponse(req.ID, protocol.EmptyResult{}), nil
	case protocol.MethodToolsList:
		return protocol.NewResponse(req.ID, map[string]any{"tools": s.Tools()}), nil
	case protocol.MethodToolsCall:
		return s.handleToolsCall(ctx, req)
	}

	tool, ok := s.GetTool(req.Method)
	if !ok {
		return nil, protocol.NewInvalidParams("Unknown method: " + req.Method).WithData(req.Method)
	}
	result, err := tool.Execute(ctx, req.Params)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = struct{}{}
	}
	return protocol.NewResponse(req.ID, result), nil
}

func (s *Server) handleInitialize(req *protocol.Request) (*protocol.Response, error) {
	result := map[string]any{
		"protocolVersion": protocol.MCPVersion,
		"serverInfo": map[string]any{
			"name":    s.info.Name,
			"version": s.info.Version,
		},
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
	}
	if s.info.Instructions != "" {
		result["instructions"] = s.info.Instructions
	}
	return protocol.NewResponse(req.ID, result), nil
}

// Content is one MCP content block.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the tools/call result.
type CallResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// handleToolsCall runs a tool and wraps its result as text content. Router
// failures become an isError result; parameter errors stay JSON-RPC errors.
func (s *Server) handleToolsCall(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, protocol.NewInvalidParams(fmt.Sprintf("invalid tools/call params: %v", err))
	}

	tool, ok := s.GetTool(params.Name)
	if !ok {
		return nil, protocol.NewInvalidParams("Unknown tool: " + params.Name).WithData(params.Name)
	}

	result, err := tool.Execute(ctx, params.Arguments)
	if err != nil {
		rpcErr := ToRPCError(err)
		if rpcErr.Code == protocol.CodeInvalidParams {
			return nil, rpcErr
		}
		return protocol.NewResponse(req.ID, CallResult{
			Content: []Content{{Type: "text", Text: rpcErr.Message}},
			IsError: true,
		}), nil
	}

	text, err := contentText(result)
	if err != nil {
		return nil, err
	}
	return protocol.NewResponse(req.ID, CallResult{Content: []Content{{Type: "text", Text: text}}}), nil
}

func contentText(result any) (string, error) {
	switch v := result.(type) {
	case string:
		return v, nil
	case json.RawMessage:
		return string(v), nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
