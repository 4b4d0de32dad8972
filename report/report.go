// Package report renders the human-readable router status report.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// Section holds one report input. A failed section keeps its error and is
// rendered as an ERROR line; the rest of the report is unaffected.
type Section[T any] struct {
	Value T
	Err   error
}

// Of builds a Section from a (value, error) pair.
func Of[T any](v T, err error) Section[T] {
	return Section[T]{Value: v, Err: err}
}

// Snapshot is everything the report shows, gathered from the router.
type Snapshot struct {
	Uptime  Section[router.Uptime]
	Memory  Section[router.MemoryUsage]
	CPU     Section[router.CPUUsage]
	WAN     Section[router.WanStatus]
	Traffic Section[router.TrafficTotal]
	Clients Section[[]router.OnlineClient]
}

const (
	banner = "═══════════════════════════════════════════════════════"
	footer = "└──────────────────────────────────────────────────────"
)

// Render returns the report text. Detailed adds the client MAC/IP table.
func Render(s Snapshot, detailed bool) string {
	var b strings.Builder
	_ = Write(&b, s, detailed)
	return b.String()
}

// Write renders the report to w.
func Write(w io.Writer, s Snapshot, detailed bool) error {
	p := &printer{w: w}

	p.line(banner)
	p.line("           ASUS ROUTER MONITORING REPORT              ")
	p.line(banner)
	p.line("")

	p.line("┌─ SYSTEM INFORMATION ─────────────────────────────────")
	writeUptime(p, s.Uptime)
	writeMemory(p, s.Memory)
	writeCPU(p, s.CPU)
	p.line(footer)
	p.line("")

	p.line("┌─ NETWORK STATUS ─────────────────────────────────────")
	writeWAN(p, s.WAN)
	writeTraffic(p, s.Traffic)
	p.line(footer)
	p.line("")

	p.line("┌─ CONNECTED CLIENTS ──────────────────────────────────")
	writeClients(p, s.Clients, detailed)
	p.line(footer)

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// field prints a "│ Label:  value" row with the value column aligned.
func (p *printer) field(label, format string, args ...any) {
	p.line("│ %-14s"+format, append([]any{label + ":"}, args...)...)
}

func (p *printer) failed(label string, err error) {
	p.field(label, "ERROR - %s", err)
}

func writeUptime(p *printer, s Section[router.Uptime]) {
	if s.Err != nil {
		p.failed("Uptime", s.Err)
		return
	}
	p.field("Uptime", "%s", s.Value.Since)
	p.field("Duration", "%s", Duration(s.Value.Seconds))
}

func writeMemory(p *printer, s Section[router.MemoryUsage]) {
	if s.Err != nil {
		p.failed("Memory", s.Err)
		return
	}
	m := s.Value
	p.field("Memory", "%.1f%% used (%d MB / %d MB)", m.UsagePercent, m.UsedKB/1024, m.TotalKB/1024)
}

func writeCPU(p *printer, s Section[router.CPUUsage]) {
	if s.Err != nil {
		p.failed("CPU Usage", s.Err)
		return
	}
	c := s.Value
	p.field("CPU Usage", "%.1f%% average (CPU1: %.1f%%, CPU2: %.1f%%)", c.AveragePercent, c.Core1.Percent, c.Core2.Percent)
}

func writeWAN(p *printer, s Section[router.WanStatus]) {
	if s.Err != nil {
		p.failed("Status", s.Err)
		return
	}
	wan := s.Value
	status := "✗ Disconnected"
	if wan.Connected {
		status = "✓ Connected"
	}
	p.field("Status", "%s", status)
	p.field("WAN IP", "%s", wan.IP)
	p.field("Gateway", "%s", wan.Gateway)
	p.field("Netmask", "%s", wan.Netmask)

	dns := "None configured"
	if len(wan.DNS) > 0 {
		servers := make([]string, len(wan.DNS))
		for i, d := range wan.DNS {
			servers[i] = d.String()
		}
		dns = strings.Join(servers, ", ")
	}
	p.field("DNS Servers", "%s", dns)
}

func writeTraffic(p *printer, s Section[router.TrafficTotal]) {
	if s.Err != nil {
		p.failed("Traffic", s.Err)
		return
	}
	p.field("Traffic", "%s Mb sent / %s Mb received",
		humanize.CommafWithDigits(s.Value.SentMb, 2),
		humanize.CommafWithDigits(s.Value.RecvMb, 2))
}

func writeClients(p *printer, s Section[[]router.OnlineClient], detailed bool) {
	if s.Err != nil {
		p.failed("Clients", s.Err)
		return
	}
	clients := s.Value
	p.field("Total Online", "%d", len(clients))
	if len(clients) == 0 {
		return
	}
	if !detailed {
		p.line("│ (Use --detailed flag to see client list)")
		return
	}

	p.line("│")
	p.line("│ MAC Address       │ IP Address      ")
	p.line("│ ──────────────────┼─────────────────")
	for _, c := range clients {
		p.line("│ %-17s │ %-15s", c.MAC.Normalized(), c.IP)
	}
}

// Duration formats seconds as "HH:MM:SS", prefixed with "N days, " once the
// uptime reaches a day.
func Duration(seconds int64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if days > 0 {
		return fmt.Sprintf("%s days, %02d:%02d:%02d", humanize.Comma(days), hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
