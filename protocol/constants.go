package protocol

// MCPVersion is the MCP protocol revision announced on initialize.
const MCPVersion = "2024-11-05"

// Method names answered besides the router tools.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
	MethodPing        = "ping"
)
