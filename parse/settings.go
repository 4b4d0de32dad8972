package parse

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// maskedPassword replaces every wireless pre-shared key.
const maskedPassword = "********"

// Settings parses the nvram_dump hook, a flat JSON object of nvram keys.
func Settings(raw string) (router.RouterSettings, error) {
	root, err := parseJSON(raw, "settings")
	if err != nil {
		return router.RouterSettings{}, err
	}
	if !root.IsObject() {
		return router.RouterSettings{}, router.ParseFailure("settings response is not an object", raw, nil)
	}

	s := router.RouterSettings{
		Name:     routerName(root),
		Firmware: firmwareVersion(root),
	}

	if s.LAN.IP, err = ipField(root, "lan_ipaddr", defaultLANIP, raw); err != nil {
		return router.RouterSettings{}, err
	}
	if s.LAN.Netmask, err = netmaskField(root, "lan_netmask", "255.255.255.0", raw); err != nil {
		return router.RouterSettings{}, err
	}
	if s.LAN.Gateway, err = ipField(root, "lan_gateway", defaultLANIP, raw); err != nil {
		return router.RouterSettings{}, err
	}
	if s.LAN.DNS, err = ipField(root, "lan_dns", defaultLANIP, raw); err != nil {
		return router.RouterSettings{}, err
	}

	if s.WAN.IP, err = ipField(root, "wan0_ipaddr", anyAddress, raw); err != nil {
		return router.RouterSettings{}, err
	}
	if s.WAN.Netmask, err = netmaskField(root, "wan0_netmask", "0.0.0.0", raw); err != nil {
		return router.RouterSettings{}, err
	}
	if s.WAN.Gateway, err = ipField(root, "wan0_gateway", anyAddress, raw); err != nil {
		return router.RouterSettings{}, err
	}
	s.WAN.DNS = stringField(root, "wan0_dns", "")

	for unit := range s.Wireless {
		s.Wireless[unit] = wirelessSettings(root, unit)
	}

	s.DHCP.Enabled = intField(root, "dhcp_enable_x", 1) == 1
	if s.DHCP.Start, err = ipField(root, "dhcp_start", defaultDHCPLo, raw); err != nil {
		return router.RouterSettings{}, err
	}
	if s.DHCP.End, err = ipField(root, "dhcp_end", defaultDHCPHi, raw); err != nil {
		return router.RouterSettings{}, err
	}
	return s, nil
}

func routerName(root gjson.Result) string {
	for _, key := range []string{"productid", "model"} {
		if v := strings.TrimSpace(stringField(root, key, "")); v != "" {
			return v
		}
	}
	return "RT-UNKNOWN"
}

// firmwareVersion joins firmver, buildno and extendno the way the web UI shows
// them, e.g. 3.0.0.4.386_45713.
func firmwareVersion(root gjson.Result) string {
	version := strings.TrimSpace(stringField(root, "firmver", ""))
	if version == "" {
		return "unknown"
	}
	if build := strings.TrimSpace(stringField(root, "buildno", "")); build != "" {
		version += "." + build
		if ext := strings.TrimSpace(stringField(root, "extendno", "")); ext != "" {
			version += "_" + ext
		}
	}
	return version
}

func wirelessSettings(root gjson.Result, unit int) router.WirelessSettings {
	key := func(name string) string { return fmt.Sprintf("wl%d_%s", unit, name) }
	return router.WirelessSettings{
		SSID:     stringField(root, key("ssid"), ""),
		Hidden:   intField(root, key("closed"), 0) == 1,
		AuthMode: stringField(root, key("auth_mode_x"), "open"),
		Crypto:   stringField(root, key("crypto"), "none"),
		Password: maskedPassword,
	}
}
