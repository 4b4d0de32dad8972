package router

import "strings"

// Uptime is the time the router booted and the seconds elapsed since.
type Uptime struct {
	Since   string `json:"since"`
	Seconds int64  `json:"uptime"`
}

// MemoryUsage is reported in kilobytes.
type MemoryUsage struct {
	TotalKB      int64   `json:"memTotal"`
	FreeKB       int64   `json:"memFree"`
	UsedKB       int64   `json:"memUsed"`
	UsagePercent float64 `json:"usagePercentage"`
}

// CoreUsage holds the raw counters of one CPU core.
type CoreUsage struct {
	Total   int64   `json:"total"`
	Busy    int64   `json:"usage"`
	Percent float64 `json:"usagePercentage"`
}

// CPUUsage covers the two cores the router reports.
type CPUUsage struct {
	Core1          CoreUsage `json:"cpu1"`
	Core2          CoreUsage `json:"cpu2"`
	AveragePercent float64   `json:"averageUsagePercentage"`
}

// TrafficTotal is in decimal megabits.
type TrafficTotal struct {
	SentMb float64 `json:"sent"`
	RecvMb float64 `json:"recv"`
}

// TrafficSpeed is the current rate as reported by the router.
type TrafficSpeed struct {
	TxSpeed float64 `json:"tx"`
	RxSpeed float64 `json:"rx"`
}

type TrafficWithSpeed struct {
	Total TrafficTotal `json:"total"`
	Speed TrafficSpeed `json:"speed"`
}

type WanStatus struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"statusCode"`
	IP         IPAddress   `json:"ipAddress"`
	Gateway    IPAddress   `json:"gateway"`
	Netmask    Netmask     `json:"netmask"`
	DNS        []IPAddress `json:"dns"`
	Connected  bool        `json:"connected"`
}

type OnlineClient struct {
	MAC MAC       `json:"mac"`
	IP  IPAddress `json:"ip"`
}

type DHCPLease struct {
	Hostname string    `json:"hostname"`
	MAC      MAC       `json:"mac"`
	IP       IPAddress `json:"ip"`
	// Expires is the lease lifetime as reported, usually seconds.
	Expires string `json:"expires"`
}

// ClientSummary is the short client record of client list format 1.
type ClientSummary struct {
	NickName   string    `json:"nickName"`
	Name       string    `json:"name"`
	IP         IPAddress `json:"ip"`
	MAC        MAC       `json:"mac"`
	Vendor     string    `json:"vendor"`
	IsOnline   bool      `json:"isOnline"`
	IsWireless int       `json:"isWL"`
	RSSI       int       `json:"rssi"`
	CurTx      string    `json:"curTx"`
}

// ClientFullInfo is the complete client record of client list format 2.
type ClientFullInfo struct {
	Name          string    `json:"name"`
	NickName      string    `json:"nickName"`
	IP            IPAddress `json:"ip"`
	MAC           MAC       `json:"mac"`
	From          string    `json:"from"`
	MacRepeat     int       `json:"macRepeat"`
	IsGateway     bool      `json:"isGateway"`
	IsWebStorage  bool      `json:"isWebStorage"`
	IsPrinter     bool      `json:"isPrinter"`
	IsITunes      bool      `json:"isITunes"`
	DPIType       string    `json:"dpiType"`
	DPIDevice     string    `json:"dpiDevice"`
	Vendor        string    `json:"vendor"`
	OSType        string    `json:"osType"`
	SSID          string    `json:"ssid"`
	IsWireless    int       `json:"isWL"`
	IsOnline      bool      `json:"isOnline"`
	RSSI          int       `json:"rssi"`
	CurTx         string    `json:"curTx"`
	CurRx         string    `json:"curRx"`
	TotalTx       string    `json:"totalTx"`
	TotalRx       string    `json:"totalRx"`
	WLConnectTime int64     `json:"wlConnectTime"`
	IPMethod      string    `json:"ipMethod"`
	OpMode        int       `json:"opMode"`
	ROG           bool      `json:"ROG"`
	Group         string    `json:"group"`
	Callback      string    `json:"callback"`
	KeepARP       string    `json:"keeparp"`
	QoSLevel      string    `json:"qosLevel"`
	WTFast        bool      `json:"wtfast"`
	InternetMode  string    `json:"internetMode"`
	InternetState int       `json:"internetState"`
}

// Wireless reports whether the client is attached over Wi-Fi.
func (c ClientFullInfo) Wireless() bool { return c.IsWireless == 1 }

// HasInternetAccess reports whether parental controls allow the client out.
func (c ClientFullInfo) HasInternetAccess() bool {
	return strings.EqualFold(c.InternetMode, "allow") && c.InternetState == 1
}

type LANSettings struct {
	IP      IPAddress `json:"ipAddress"`
	Netmask Netmask   `json:"netmask"`
	Gateway IPAddress `json:"gateway"`
	DNS     IPAddress `json:"dns"`
}

type WANSettings struct {
	IP      IPAddress `json:"ipAddress"`
	Netmask Netmask   `json:"netmask"`
	Gateway IPAddress `json:"gateway"`
	DNS     string    `json:"dns"`
}

// WirelessSettings never carries the pre-shared key itself.
type WirelessSettings struct {
	SSID     string `json:"ssid"`
	Hidden   bool   `json:"hidden"`
	AuthMode string `json:"authMode"`
	Crypto   string `json:"crypto"`
	Password string `json:"password"`
}

type DHCPSettings struct {
	Enabled bool      `json:"enabled"`
	Start   IPAddress `json:"startAddress"`
	End     IPAddress `json:"endAddress"`
}

type RouterSettings struct {
	Name     string              `json:"routerName"`
	Firmware string              `json:"firmwareVersion"`
	LAN      LANSettings         `json:"lan"`
	WAN      WANSettings         `json:"wan"`
	Wireless [2]WirelessSettings `json:"wireless"`
	DHCP     DHCPSettings        `json:"dhcp"`
}
