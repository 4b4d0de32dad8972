package parse

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// DHCPLeases parses the dhcp_leases hook. JSON is tried first: either a root
// array or an array under "leases". Anything else is read as the legacy
// format of one "expires;mac;ip;hostname" line per lease.
func DHCPLeases(raw string) ([]router.DHCPLease, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return dhcpLeasesJSON(raw)
	}
	return dhcpLeasesLegacy(raw)
}

func dhcpLeasesJSON(raw string) ([]router.DHCPLease, error) {
	root, err := parseJSON(raw, "DHCP leases")
	if err != nil {
		return nil, err
	}
	entries := root
	if root.IsObject() {
		entries = root.Get("leases")
	}
	if !entries.IsArray() {
		return nil, router.ParseFailure("DHCP leases response has no lease array", raw, nil)
	}

	leases := make([]router.DHCPLease, 0)
	var failure error
	entries.ForEach(func(_, entry gjson.Result) bool {
		macText := strings.TrimSpace(stringField(entry, "mac", ""))
		ipText := strings.TrimSpace(stringField(entry, "ip", ""))
		if macText == "" || ipText == "" {
			return true
		}
		lease, err := newLease(macText, ipText, stringField(entry, "hostname", ""), stringField(entry, "expires", "0"), raw)
		if err != nil {
			failure = err
			return false
		}
		leases = append(leases, lease)
		return true
	})
	if failure != nil {
		return nil, failure
	}
	return leases, nil
}

func dhcpLeasesLegacy(raw string) ([]router.DHCPLease, error) {
	leases := make([]router.DHCPLease, 0)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ";")
		if len(parts) < 3 {
			continue
		}
		hostname := ""
		if len(parts) > 3 {
			hostname = strings.TrimSpace(parts[3])
		}
		lease, err := newLease(strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), hostname, strings.TrimSpace(parts[0]), raw)
		if err != nil {
			return nil, err
		}
		leases = append(leases, lease)
	}
	return leases, nil
}

func newLease(macText, ipText, hostname, expires, raw string) (router.DHCPLease, error) {
	mac, err := router.ParseMAC(macText)
	if err != nil {
		return router.DHCPLease{}, router.ParseFailure("DHCP lease entry", raw, err)
	}
	ip, err := router.ParseIP(ipText)
	if err != nil {
		return router.DHCPLease{}, router.ParseFailure("DHCP lease entry", raw, err)
	}
	return router.DHCPLease{Hostname: hostname, MAC: mac, IP: ip, Expires: expires}, nil
}
