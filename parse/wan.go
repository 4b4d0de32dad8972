package parse

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// WanStatus parses the wan_status hook.
func WanStatus(raw string) (router.WanStatus, error) {
	root, err := parseJSON(raw, "WAN status")
	if err != nil {
		return router.WanStatus{}, err
	}
	if !root.IsObject() {
		return router.WanStatus{}, router.ParseFailure("WAN status response is not an object", raw, nil)
	}

	status := router.WanStatus{
		Status:     stringField(root, "status", "disconnected"),
		StatusCode: int(intField(root, "statusCode", 0)),
	}
	if status.IP, err = ipField(root, "wanIP", anyAddress, raw); err != nil {
		return router.WanStatus{}, err
	}
	if status.Gateway, err = ipField(root, "gateway", anyAddress, raw); err != nil {
		return router.WanStatus{}, err
	}
	if status.Netmask, err = netmaskField(root, "netmask", "0.0.0.0", raw); err != nil {
		return router.WanStatus{}, err
	}
	if status.DNS, err = dnsServers(root.Get("dns"), raw); err != nil {
		return router.WanStatus{}, err
	}
	status.Connected = status.StatusCode == 1 || strings.EqualFold(status.Status, "connected")
	return status, nil
}

// dnsServers accepts an array or a single space separated string.
func dnsServers(v gjson.Result, raw string) ([]router.IPAddress, error) {
	var candidates []string
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			candidates = append(candidates, item.String())
		}
	case v.Type == gjson.String:
		candidates = strings.Fields(v.Str)
	}

	servers := make([]router.IPAddress, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || c == "0.0.0.0" {
			continue
		}
		ip, err := router.ParseIP(c)
		if err != nil {
			return nil, router.ParseFailure("field \"dns\"", raw, err)
		}
		servers = append(servers, ip)
	}
	return servers, nil
}
