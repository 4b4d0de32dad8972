package parse

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// clientListEnvelope wraps the client map in format 2 responses.
const clientListEnvelope = "get_clientlist"

// OnlineClients parses the onlinelist hook, a JSON array of {mac, ip}.
// Entries missing either field are skipped.
func OnlineClients(raw string) ([]router.OnlineClient, error) {
	root, err := parseJSON(raw, "online clients")
	if err != nil {
		return nil, err
	}
	if !root.IsArray() {
		return nil, router.ParseFailure("online clients response is not an array", raw, nil)
	}

	clients := make([]router.OnlineClient, 0)
	for _, entry := range root.Array() {
		macText := strings.TrimSpace(stringField(entry, "mac", ""))
		ipText := strings.TrimSpace(stringField(entry, "ip", ""))
		if macText == "" || ipText == "" {
			continue
		}
		mac, err := router.ParseMAC(macText)
		if err != nil {
			return nil, router.ParseFailure("online client entry", raw, err)
		}
		ip, err := router.ParseIP(ipText)
		if err != nil {
			return nil, router.ParseFailure("online client entry", raw, err)
		}
		clients = append(clients, router.OnlineClient{MAC: mac, IP: ip})
	}
	return clients, nil
}

// findClient locates the entry for mac in a client list response. The map may
// sit under the get_clientlist envelope or be the root object itself. Entries
// are scanned in document order and the first match wins.
func findClient(raw string, mac router.MAC) (gjson.Result, router.MAC, error) {
	root, err := parseJSON(raw, "client list")
	if err != nil {
		return gjson.Result{}, router.MAC{}, err
	}
	if !root.IsObject() {
		return gjson.Result{}, router.MAC{}, router.ParseFailure("client list response is not an object", raw, nil)
	}

	container := root
	if envelope := root.Get(clientListEnvelope); envelope.IsObject() {
		container = envelope
	}

	var (
		match    gjson.Result
		matchMAC router.MAC
		found    bool
	)
	container.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		candidate := stringField(value, "mac", "")
		if candidate == "" {
			candidate = key.String()
		}
		entryMAC, err := router.ParseMAC(candidate)
		if err != nil {
			return true
		}
		if entryMAC.Equal(mac) {
			match, matchMAC, found = value, entryMAC, true
			return false
		}
		return true
	})

	if !found {
		return gjson.Result{}, router.MAC{}, router.ClientNotFound(mac)
	}
	return match, matchMAC, nil
}

// ClientSummary finds mac in a client list and returns its short record.
func ClientSummary(raw string, mac router.MAC) (router.ClientSummary, error) {
	entry, entryMAC, err := findClient(raw, mac)
	if err != nil {
		return router.ClientSummary{}, err
	}
	ip, err := ipField(entry, "ip", anyAddress, raw)
	if err != nil {
		return router.ClientSummary{}, err
	}
	return router.ClientSummary{
		NickName:   stringField(entry, "nickName", ""),
		Name:       stringField(entry, "name", ""),
		IP:         ip,
		MAC:        entryMAC,
		Vendor:     stringField(entry, "vendor", ""),
		IsOnline:   boolField(entry, "isOnline", false),
		IsWireless: int(intField(entry, "isWL", 0)),
		RSSI:       int(intField(entry, "rssi", 0)),
		CurTx:      stringField(entry, "curTx", ""),
	}, nil
}

// ClientFullInfo finds mac in a client list and returns every known field.
func ClientFullInfo(raw string, mac router.MAC) (router.ClientFullInfo, error) {
	entry, entryMAC, err := findClient(raw, mac)
	if err != nil {
		return router.ClientFullInfo{}, err
	}
	ip, err := ipField(entry, "ip", anyAddress, raw)
	if err != nil {
		return router.ClientFullInfo{}, err
	}
	return router.ClientFullInfo{
		Name:          stringField(entry, "name", ""),
		NickName:      stringField(entry, "nickName", ""),
		IP:            ip,
		MAC:           entryMAC,
		From:          stringField(entry, "from", ""),
		MacRepeat:     int(intField(entry, "macRepeat", 1)),
		IsGateway:     boolField(entry, "isGateway", false),
		IsWebStorage:  boolField(entry, "isWebStorage", false),
		IsPrinter:     boolField(entry, "isPrinter", false),
		IsITunes:      boolField(entry, "isITunes", false),
		DPIType:       stringField(entry, "dpiType", ""),
		DPIDevice:     stringField(entry, "dpiDevice", ""),
		Vendor:        stringField(entry, "vendor", ""),
		OSType:        stringField(entry, "osType", ""),
		SSID:          stringField(entry, "ssid", ""),
		IsWireless:    int(intField(entry, "isWL", 0)),
		IsOnline:      boolField(entry, "isOnline", false),
		RSSI:          int(intField(entry, "rssi", 0)),
		CurTx:         stringField(entry, "curTx", ""),
		CurRx:         stringField(entry, "curRx", ""),
		TotalTx:       stringField(entry, "totalTx", "0"),
		TotalRx:       stringField(entry, "totalRx", "0"),
		WLConnectTime: intField(entry, "wlConnectTime", 0),
		IPMethod:      stringField(entry, "ipMethod", ""),
		OpMode:        int(intField(entry, "opMode", 0)),
		ROG:           boolField(entry, "ROG", false),
		Group:         stringField(entry, "group", ""),
		Callback:      stringField(entry, "callback", ""),
		KeepARP:       stringField(entry, "keeparp", ""),
		QoSLevel:      stringField(entry, "qosLevel", ""),
		WTFast:        boolField(entry, "wtfast", false),
		InternetMode:  stringField(entry, "internetMode", "allow"),
		InternetState: int(intField(entry, "internetState", 0)),
	}, nil
}
