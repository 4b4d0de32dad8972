package parse

import (
	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/asus-router-mcp/router"
)

// wanInterfaces are probed in order before falling back to the first entry.
var wanInterfaces = []string{"eth0", "ppp0", "wan", "vlan2"}

// TrafficTotal parses the netdev hook into megabit totals of the WAN interface.
func TrafficTotal(raw string) (router.TrafficTotal, error) {
	iface, err := wanInterface(raw)
	if err != nil {
		return router.TrafficTotal{}, err
	}
	return trafficTotal(iface, raw)
}

// TrafficWithSpeed is TrafficTotal plus the current tx/rx rates.
func TrafficWithSpeed(raw string) (router.TrafficWithSpeed, error) {
	iface, err := wanInterface(raw)
	if err != nil {
		return router.TrafficWithSpeed{}, err
	}
	total, err := trafficTotal(iface, raw)
	if err != nil {
		return router.TrafficWithSpeed{}, err
	}
	return router.TrafficWithSpeed{
		Total: total,
		Speed: router.TrafficSpeed{
			TxSpeed: floatField(iface, "tx_speed", 0),
			RxSpeed: floatField(iface, "rx_speed", 0),
		},
	}, nil
}

func wanInterface(raw string) (gjson.Result, error) {
	root, err := parseJSON(raw, "traffic")
	if err != nil {
		return gjson.Result{}, err
	}
	if !root.IsObject() {
		return gjson.Result{}, router.ParseFailure("traffic response is not an object", raw, nil)
	}

	var first gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		if value.IsObject() {
			first = value
			return false
		}
		return true
	})
	if !first.Exists() {
		return gjson.Result{}, router.ParseFailure("traffic response lists no interfaces", raw, nil)
	}

	for _, name := range wanInterfaces {
		if v := root.Get(name); v.IsObject() {
			return v, nil
		}
	}
	return first, nil
}

func trafficTotal(iface gjson.Result, raw string) (router.TrafficTotal, error) {
	tx := intField(iface, "tx_bytes", 0)
	rx := intField(iface, "rx_bytes", 0)
	if tx < 0 || rx < 0 {
		return router.TrafficTotal{}, router.ParseFailure("negative byte counter", raw, nil)
	}
	return router.TrafficTotal{SentMb: megabits(tx), RecvMb: megabits(rx)}, nil
}

// megabits converts bytes to decimal megabits.
func megabits(bytes int64) float64 {
	return float64(bytes) * 8 / 1_000_000
}
