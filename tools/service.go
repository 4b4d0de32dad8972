// Package tools implements the router operations behind each tool method.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/asus-router-mcp/parse"
	"github.com/felixgeelhaar/asus-router-mcp/report"
	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// Router hooks queried through appGet.cgi.
const (
	HookUptime            = "uptime"
	HookMemoryUsage       = "memory_usage"
	HookCPUUsage          = "cpu_usage"
	HookNetdev            = "netdev"
	HookWanStatus         = "wan_status"
	HookOnlineList        = "onlinelist"
	HookDHCPLeases        = "dhcp_leases"
	HookNvramDump         = "nvram_dump"
	HookNvramGet          = "nvram_get"
	HookClientList        = "get_clientlist"
	HookNetworkDeviceList = "get_network_device_list"
	HookWanLink           = "get_wan_link"
)

// Executor runs one hook against the router and returns the raw response.
// *client.Client satisfies it.
type Executor interface {
	ExecuteHook(ctx context.Context, hook, param string) (string, error)
}

// Service turns hook responses into domain records.
type Service struct {
	exec   Executor
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService returns a Service backed by exec.
func NewService(exec Executor, opts ...ServiceOption) *Service {
	s := &Service{
		exec:   exec,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// query runs hook and hands the raw text to parser.
func query[T any](ctx context.Context, s *Service, hook, param string, parser func(string) (T, error)) (T, error) {
	raw, err := s.exec.ExecuteHook(ctx, hook, param)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := parser(raw)
	if err != nil {
		s.logger.Debug("unparseable router response", slog.String("hook", hook), slog.String("error", err.Error()))
	}
	return v, err
}

// Uptime reads the router uptime.
func (s *Service) Uptime(ctx context.Context) (router.Uptime, error) {
	return query(ctx, s, HookUptime, "", parse.Uptime)
}

// MemoryUsage reads total, free and used memory in KB.
func (s *Service) MemoryUsage(ctx context.Context) (router.MemoryUsage, error) {
	return query(ctx, s, HookMemoryUsage, "", parse.MemoryUsage)
}

// CPUUsage reads the per-core CPU counters.
func (s *Service) CPUUsage(ctx context.Context) (router.CPUUsage, error) {
	return query(ctx, s, HookCPUUsage, "", parse.CPUUsage)
}

// TrafficTotal reads cumulative WAN traffic in Mb.
func (s *Service) TrafficTotal(ctx context.Context) (router.TrafficTotal, error) {
	return query(ctx, s, HookNetdev, "", parse.TrafficTotal)
}

// Traffic reads cumulative WAN traffic together with current speeds.
func (s *Service) Traffic(ctx context.Context) (router.TrafficWithSpeed, error) {
	return query(ctx, s, HookNetdev, "", parse.TrafficWithSpeed)
}

// WanStatus reads the WAN connection state.
func (s *Service) WanStatus(ctx context.Context) (router.WanStatus, error) {
	return query(ctx, s, HookWanStatus, "", parse.WanStatus)
}

// OnlineClients lists clients currently connected.
func (s *Service) OnlineClients(ctx context.Context) ([]router.OnlineClient, error) {
	return query(ctx, s, HookOnlineList, "", parse.OnlineClients)
}

// DHCPLeases lists the DHCP leases in either router format.
func (s *Service) DHCPLeases(ctx context.Context) ([]router.DHCPLease, error) {
	return query(ctx, s, HookDHCPLeases, "", parse.DHCPLeases)
}

// Settings reads the nvram-backed router configuration.
func (s *Service) Settings(ctx context.Context) (router.RouterSettings, error) {
	return query(ctx, s, HookNvramDump, "", parse.Settings)
}

// ClientFullInfo looks up one client in the format 2 client list.
func (s *Service) ClientFullInfo(ctx context.Context, mac router.MAC) (router.ClientFullInfo, error) {
	return query(ctx, s, HookClientList, "2", func(raw string) (router.ClientFullInfo, error) {
		return parse.ClientFullInfo(raw, mac)
	})
}

// ClientSummary looks up one client in the format 1 client list.
func (s *Service) ClientSummary(ctx context.Context, mac router.MAC) (router.ClientSummary, error) {
	return query(ctx, s, HookClientList, "1", func(raw string) (router.ClientSummary, error) {
		return parse.ClientSummary(raw, mac)
	})
}

// IsAlive reports whether the router answers the uptime hook with a
// well-formed reply. It never fails; errors mean not alive.
func (s *Service) IsAlive(ctx context.Context) bool {
	raw, err := s.exec.ExecuteHook(ctx, HookUptime, "")
	if err != nil {
		s.logger.Warn("router not alive", slog.String("error", err.Error()))
		return false
	}
	alive := strings.Contains(raw, ";")
	s.logger.Debug("router alive check", slog.Bool("alive", alive))
	return alive
}

// Nvram runs a read-only nvram command after it passes ValidateNvramCommand.
func (s *Service) Nvram(ctx context.Context, command string) (any, error) {
	normalized, err := ValidateNvramCommand(command)
	if err != nil {
		return nil, err
	}
	return s.passThrough(ctx, HookNvramGet, normalized)
}

// ClientList returns the raw client list. Format outside 0..2 means 0.
func (s *Service) ClientList(ctx context.Context, format int) (any, error) {
	return s.passThrough(ctx, HookClientList, strconv.Itoa(clamp(format, 2)))
}

// NetworkDeviceList returns the device list, or one device when name is set.
func (s *Service) NetworkDeviceList(ctx context.Context, name string) (any, error) {
	return s.passThrough(ctx, HookNetworkDeviceList, strings.TrimSpace(name))
}

// WanLink returns link details for a WAN unit. Unit outside 0..1 means 0.
func (s *Service) WanLink(ctx context.Context, unit int) (any, error) {
	return s.passThrough(ctx, HookWanLink, strconv.Itoa(clamp(unit, 1)))
}

func clamp(v, hi int) int {
	if v < 0 || v > hi {
		return 0
	}
	return v
}

// passThrough returns the router text as embedded JSON when it is a JSON
// object or array, and as a plain string otherwise.
func (s *Service) passThrough(ctx context.Context, hook, param string) (any, error) {
	raw, err := s.exec.ExecuteHook(ctx, hook, param)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("pass-through hook", slog.String("call", describe(hook, param)), slog.Int("bytes", len(raw)))
	return Embed(raw), nil
}

// Embed returns raw as a json.RawMessage when it is a JSON object or array,
// and unchanged otherwise.
func Embed(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) && gjson.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return raw
}

// Snapshot gathers every report section concurrently. A failing section
// keeps its error and does not affect the others.
func (s *Service) Snapshot(ctx context.Context) report.Snapshot {
	var (
		snap report.Snapshot
		wg   sync.WaitGroup
	)
	gather := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	gather(func() { snap.Uptime = report.Of(s.Uptime(ctx)) })
	gather(func() { snap.Memory = report.Of(s.MemoryUsage(ctx)) })
	gather(func() { snap.CPU = report.Of(s.CPUUsage(ctx)) })
	gather(func() { snap.WAN = report.Of(s.WanStatus(ctx)) })
	gather(func() { snap.Traffic = report.Of(s.TrafficTotal(ctx)) })
	gather(func() { snap.Clients = report.Of(s.OnlineClients(ctx)) })
	wg.Wait()

	return snap
}

// ShowInfo renders the status report.
func (s *Service) ShowInfo(ctx context.Context, detailed bool) string {
	return report.Render(s.Snapshot(ctx), detailed)
}

func describe(hook, param string) string {
	if param == "" {
		return hook
	}
	return fmt.Sprintf("%s(%s)", hook, param)
}
