package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/asus-router-mcp/router"
)

func parseJSON(raw, what string) (gjson.Result, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return gjson.Result{}, router.ParseFailure(fmt.Sprintf("empty %s response", what), raw, nil)
	}
	if !gjson.Valid(trimmed) {
		return gjson.Result{}, router.ParseFailure(fmt.Sprintf("invalid JSON in %s response", what), raw, nil)
	}
	return gjson.Parse(trimmed), nil
}

func stringField(r gjson.Result, key, def string) string {
	v := r.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return def
	}
	return v.String()
}

// intField accepts JSON numbers and numeric strings, as the firmware mixes both.
func intField(r gjson.Result, key string, def int64) int64 {
	v := r.Get(key)
	switch v.Type {
	case gjson.Number:
		return v.Int()
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

func floatField(r gjson.Result, key string, def float64) float64 {
	v := r.Get(key)
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

func boolField(r gjson.Result, key string, def bool) bool {
	v := r.Get(key)
	switch v.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		b, err := strconv.ParseBool(strings.TrimSpace(v.Str))
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

// ipField returns def when the field is absent or empty.
func ipField(r gjson.Result, key string, def router.IPAddress, raw string) (router.IPAddress, error) {
	s := strings.TrimSpace(stringField(r, key, ""))
	if s == "" {
		return def, nil
	}
	ip, err := router.ParseIP(s)
	if err != nil {
		return router.IPAddress{}, router.ParseFailure(fmt.Sprintf("field %q", key), raw, err)
	}
	return ip, nil
}

func netmaskField(r gjson.Result, key, def string, raw string) (router.Netmask, error) {
	s := strings.TrimSpace(stringField(r, key, ""))
	if s == "" {
		s = def
	}
	mask, err := router.ParseNetmask(s)
	if err != nil {
		return router.Netmask{}, router.ParseFailure(fmt.Sprintf("field %q", key), raw, err)
	}
	return mask, nil
}

var (
	anyAddress    = router.MustParseIP("0.0.0.0")
	defaultLANIP  = router.MustParseIP("192.168.1.1")
	defaultDHCPLo = router.MustParseIP("192.168.1.2")
	defaultDHCPHi = router.MustParseIP("192.168.1.254")
)
