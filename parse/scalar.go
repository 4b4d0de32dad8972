package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// splitFields splits a scalar table and requires exactly n fields.
func splitFields(raw string, n int, what string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, router.ParseFailure(fmt.Sprintf("empty %s response", what), raw, nil)
	}
	fields := strings.Split(trimmed, ";")
	if len(fields) != n {
		return nil, router.ParseFailure(
			fmt.Sprintf("%s response has %d fields, want %d", what, len(fields), n), raw, nil)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

func counters(fields []string, raw, what string) ([]int64, error) {
	out := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, router.ParseFailure(fmt.Sprintf("%s field %d is not an integer", what, i+1), raw, err)
		}
		if n < 0 {
			return nil, router.ParseFailure(fmt.Sprintf("%s field %d is negative", what, i+1), raw, nil)
		}
		out[i] = n
	}
	return out, nil
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

// Uptime parses "<since>;<seconds>".
func Uptime(raw string) (router.Uptime, error) {
	fields, err := splitFields(raw, 2, "uptime")
	if err != nil {
		return router.Uptime{}, err
	}
	secs, err := counters(fields[1:], raw, "uptime")
	if err != nil {
		return router.Uptime{}, err
	}
	return router.Uptime{Since: fields[0], Seconds: secs[0]}, nil
}

// MemoryUsage parses "<total>;<free>;<used>" in kilobytes.
func MemoryUsage(raw string) (router.MemoryUsage, error) {
	fields, err := splitFields(raw, 3, "memory usage")
	if err != nil {
		return router.MemoryUsage{}, err
	}
	n, err := counters(fields, raw, "memory usage")
	if err != nil {
		return router.MemoryUsage{}, err
	}
	return router.MemoryUsage{
		TotalKB:      n[0],
		FreeKB:       n[1],
		UsedKB:       n[2],
		UsagePercent: percent(n[2], n[0]),
	}, nil
}

// CPUUsage parses "<cpu1 total>;<cpu1 busy>;<cpu2 total>;<cpu2 busy>".
func CPUUsage(raw string) (router.CPUUsage, error) {
	fields, err := splitFields(raw, 4, "cpu usage")
	if err != nil {
		return router.CPUUsage{}, err
	}
	n, err := counters(fields, raw, "cpu usage")
	if err != nil {
		return router.CPUUsage{}, err
	}
	core1 := router.CoreUsage{Total: n[0], Busy: n[1], Percent: percent(n[1], n[0])}
	core2 := router.CoreUsage{Total: n[2], Busy: n[3], Percent: percent(n[3], n[2])}
	return router.CPUUsage{
		Core1:          core1,
		Core2:          core2,
		AveragePercent: (core1.Percent + core2.Percent) / 2,
	}, nil
}
