package tools

import (
	"github.com/felixgeelhaar/asus-router-mcp/protocol"
	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// Descriptor is the static metadata of one tool.
type Descriptor struct {
	Name        string
	Description string
	Errors      []int
}

// Tool method names.
const (
	ToolUptime            = "asus_router_get_uptime"
	ToolMemoryUsage       = "asus_router_get_memory_usage"
	ToolCPUUsage          = "asus_router_get_cpu_usage"
	ToolTrafficTotal      = "asus_router_get_traffic_total"
	ToolTraffic           = "asus_router_get_traffic"
	ToolWanStatus         = "asus_router_get_wan_status"
	ToolClientFullInfo    = "asus_router_get_client_full_info"
	ToolClientSummary     = "asus_router_get_client_info_summary"
	ToolOnlineClients     = "asus_router_get_online_clients"
	ToolDHCPLeases        = "asus_router_get_dhcp_leases"
	ToolSettings          = "asus_router_get_settings"
	ToolNvram             = "asus_router_get_nvram"
	ToolClientList        = "asus_router_get_client_list"
	ToolNetworkDeviceList = "asus_router_get_network_device_list"
	ToolWanLink           = "asus_router_get_wan_link"
	ToolIsAlive           = "asus_router_is_alive"
	ToolShowInfo          = "asus_router_show_info"
)

var (
	codeAuth      = router.KindAuthFailed.Code()
	codeComm      = router.KindCommError.Code()
	codeParse     = router.KindParseError.Code()
	codeNotFound  = router.KindClientNotFound.Code()
	codeResponse  = router.KindInvalidResponse.Code()
	codeCommand   = router.KindInvalidCommand.Code()
	codeParams    = protocol.CodeInvalidParams
	readErrors    = []int{codeAuth, codeComm, codeParse, codeResponse}
	rawErrors     = []int{codeAuth, codeComm, codeResponse}
	clientErrors  = []int{codeAuth, codeComm, codeParse, codeNotFound, codeResponse, codeParams}
	commandErrors = []int{codeAuth, codeComm, codeResponse, codeCommand}
)

// Catalogue lists every tool in the order tools/list reports them.
var Catalogue = []Descriptor{
	{ToolUptime, "Return uptime of the router with last boot time and uptime in seconds", readErrors},
	{ToolMemoryUsage, "Return current memory usage information including total, used, and free memory", readErrors},
	{ToolCPUUsage, "Return current CPU usage information including total usage and per-core breakdown", readErrors},
	{ToolTrafficTotal, "Retrieve total traffic statistics (sent and received megabits)", readErrors},
	{ToolTraffic, "Retrieve network traffic information including current speed and total data transferred", readErrors},
	{ToolWanStatus, "Return WAN connection status including IP, gateway, DNS servers", readErrors},
	{ToolClientFullInfo, "Retrieve complete information about a specific connected client including connection details, traffic statistics, and configuration", clientErrors},
	{ToolClientSummary, "Retrieve summary information about a specific connected client including name, IP, connection type, and signal strength", clientErrors},
	{ToolOnlineClients, "Retrieve list of currently online/connected clients with their MAC and IP addresses", readErrors},
	{ToolDHCPLeases, "Retrieve DHCP lease information for clients that obtained IP addresses from the router's DHCP server", readErrors},
	{ToolSettings, "Retrieve router configuration settings including LAN, WAN, wireless, and DHCP. Wireless keys are masked", readErrors},
	{ToolNvram, "Execute a read-only NVRAM command (for example 'nvram get lan_ipaddr'). Write operations are rejected", commandErrors},
	{ToolClientList, "Retrieve the list of connected clients. format 0 is the basic list, 1 adds details, 2 is the full structure", rawErrors},
	{ToolNetworkDeviceList, "Retrieve list of network devices detected by the router, or a single device by name", rawErrors},
	{ToolWanLink, "Retrieve WAN link information for WAN unit 0 or 1, including connection type, status, and bandwidth statistics", rawErrors},
	{ToolIsAlive, "Check if router is online and responsive", nil},
	{ToolShowInfo, "Display formatted summary of router status including uptime, memory, CPU, WAN, traffic, and connected clients", nil},
}
