package tools

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/asus-router-mcp/router"
	"github.com/felixgeelhaar/asus-router-mcp/server"
)

type noInput struct{}

type macInput struct {
	MAC string `json:"mac" jsonschema:"required,description=Client MAC address, e.g. AA:BB:CC:DD:EE:FF or aa-bb-cc-dd-ee-ff"`
}

type nvramInput struct {
	NvramCommand string `json:"nvram_command" jsonschema:"description=Read-only nvram command, e.g. nvram get lan_ipaddr"`
	Command      string `json:"command" jsonschema:"description=Alias of nvram_command"`
}

type clientListInput struct {
	Format *int `json:"format,omitempty" jsonschema:"description=0 basic, 1 detailed, 2 full structure. Defaults to 0, out of range values use 0"`
}

type deviceListInput struct {
	DeviceName      string `json:"device_name,omitempty" jsonschema:"description=Optional device name, e.g. eth0"`
	DeviceNameAlias string `json:"deviceName,omitempty" jsonschema:"description=Alias of device_name"`
}

type wanLinkInput struct {
	Unit *int `json:"unit,omitempty" jsonschema:"description=WAN unit 0 or 1. Defaults to 0, out of range values use 0"`
}

type showInfoInput struct {
	Detailed bool `json:"detailed,omitempty" jsonschema:"description=Include the MAC/IP table of online clients"`
}

// handlers maps each catalogue entry to its implementation.
func handlers(svc *Service) map[string]any {
	return map[string]any{
		ToolUptime: func(ctx context.Context, _ noInput) (router.Uptime, error) {
			return svc.Uptime(ctx)
		},
		ToolMemoryUsage: func(ctx context.Context, _ noInput) (router.MemoryUsage, error) {
			return svc.MemoryUsage(ctx)
		},
		ToolCPUUsage: func(ctx context.Context, _ noInput) (router.CPUUsage, error) {
			return svc.CPUUsage(ctx)
		},
		ToolTrafficTotal: func(ctx context.Context, _ noInput) (router.TrafficTotal, error) {
			return svc.TrafficTotal(ctx)
		},
		ToolTraffic: func(ctx context.Context, _ noInput) (router.TrafficWithSpeed, error) {
			return svc.Traffic(ctx)
		},
		ToolWanStatus: func(ctx context.Context, _ noInput) (router.WanStatus, error) {
			return svc.WanStatus(ctx)
		},
		ToolClientFullInfo: func(ctx context.Context, in macInput) (router.ClientFullInfo, error) {
			mac, err := router.ParseMAC(in.MAC)
			if err != nil {
				return router.ClientFullInfo{}, err
			}
			return svc.ClientFullInfo(ctx, mac)
		},
		ToolClientSummary: func(ctx context.Context, in macInput) (router.ClientSummary, error) {
			mac, err := router.ParseMAC(in.MAC)
			if err != nil {
				return router.ClientSummary{}, err
			}
			return svc.ClientSummary(ctx, mac)
		},
		ToolOnlineClients: func(ctx context.Context, _ noInput) ([]router.OnlineClient, error) {
			return svc.OnlineClients(ctx)
		},
		ToolDHCPLeases: func(ctx context.Context, _ noInput) ([]router.DHCPLease, error) {
			return svc.DHCPLeases(ctx)
		},
		ToolSettings: func(ctx context.Context, _ noInput) (router.RouterSettings, error) {
			return svc.Settings(ctx)
		},
		ToolNvram: func(ctx context.Context, in nvramInput) (any, error) {
			command := in.NvramCommand
			if command == "" {
				command = in.Command
			}
			return svc.Nvram(ctx, command)
		},
		ToolClientList: func(ctx context.Context, in clientListInput) (any, error) {
			return svc.ClientList(ctx, deref(in.Format))
		},
		ToolNetworkDeviceList: func(ctx context.Context, in deviceListInput) (any, error) {
			name := in.DeviceName
			if name == "" {
				name = in.DeviceNameAlias
			}
			return svc.NetworkDeviceList(ctx, name)
		},
		ToolWanLink: func(ctx context.Context, in wanLinkInput) (any, error) {
			return svc.WanLink(ctx, deref(in.Unit))
		},
		ToolIsAlive: func(ctx context.Context, _ noInput) (bool, error) {
			return svc.IsAlive(ctx), nil
		},
		ToolShowInfo: func(ctx context.Context, in showInfoInput) (string, error) {
			return svc.ShowInfo(ctx, in.Detailed), nil
		},
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Register adds every catalogue tool to srv, in catalogue order.
func Register(srv *server.Server, svc *Service) {
	impl := handlers(svc)
	if len(impl) != len(Catalogue) {
		panic(fmt.Sprintf("tools: %d handlers for %d catalogue entries", len(impl), len(Catalogue)))
	}
	for _, d := range Catalogue {
		h, ok := impl[d.Name]
		if !ok {
			panic("tools: no handler for " + d.Name)
		}
		srv.Tool(d.Name).
			Description(d.Description).
			Errors(d.Errors...).
			ReadOnly().
			Idempotent().
			ClosedWorld().
			ValidateInput().
			Handler(h)
	}
}
