package server

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/asus-router-mcp/protocol"
)

// Info contains server metadata announced on initialize.
type Info struct {
	Name         string
	Version      string
	Instructions string
}

// ToolInfo is the tools/list entry for one tool.
type ToolInfo struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema any              `json:"inputSchema"`
	Annotations *ToolAnnotations `json:"annotations,omitempty"`
	Errors      []int            `json:"errors,omitempty"`
}

// Server is the static tool registry. Tools are registered once at startup
// and listed in registration order.
type Server struct {
	mu sync.RWMutex

	info  Info
	tools map[string]*Tool
	order []string
}

// New creates an empty registry.
func New(info Info) *Server {
	return &Server{
		info:  info,
		tools: make(map[string]*Tool),
	}
}

// Info returns the server info.
func (s *Server) Info() Info {
	return s.info
}

// Tool starts building a new tool with the given name.
func (s *Server) Tool(name string) *ToolBuilder {
	return &ToolBuilder{
		tool:   &Tool{name: name},
		server: s,
	}
}

// Tools returns the catalogue in registration order.
func (s *Server) Tools() []ToolInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ToolInfo, 0, len(s.order))
	for _, name := range s.order {
		t := s.tools[name]
		result = append(result, ToolInfo{
			Name:        t.name,
			Description: t.description,
			InputSchema: t.inputSchema,
			Annotations: t.annotations,
			Errors:      t.errors,
		})
	}
	return result
}

// GetTool retrieves a tool by name.
func (s *Server) GetTool(name string) (*Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tools[name]
	return t, ok
}

// registerTool adds a tool. A duplicate name is a programming error.
func (s *Server) registerTool(t *Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.tools[t.name]; dup {
		panic(fmt.Sprintf("server: tool %q registered twice", t.name))
	}
	if isReserved(t.name) {
		panic(fmt.Sprintf("server: tool name %q is a protocol method", t.name))
	}
	s.tools[t.name] = t
	s.order = append(s.order, t.name)
}

func isReserved(name string) bool {
	switch name {
	case protocol.MethodInitialize, protocol.MethodInitialized, protocol.MethodToolsList,
		protocol.MethodToolsCall, protocol.MethodPing:
		return true
	}
	return false
}
