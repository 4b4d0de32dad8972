// Package testutil provides test doubles for the router server.
//
// MockRouter is an in-process stand-in for the router's HTTP API. It serves
// login.cgi and appGet.cgi with canned payloads, counts logins and hook calls,
// and can expire sessions to exercise the re-login path.
//
//	func TestUptime(t *testing.T) {
//	    mock := testutil.NewMockRouter(t)
//	    c := client.New(mock.URL(), testutil.Username, testutil.Password)
//	    raw, err := c.ExecuteHook(ctx, "uptime", "")
//	    ...
//	}
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Default credentials accepted by MockRouter.
const (
	Username = "admin"
	Password = "secret"
)

// Canned hook payloads served by MockRouter.
const (
	UptimePayload     = "Thu, 09 Dec 2025 22:30:00 +0100;450123"
	MemoryPayload     = "262144;107320;154824"
	CPUPayload        = "38106047;3395512;38106008;2384694"
	NetdevPayload     = `{"eth0":{"tx_bytes":256000000,"rx_bytes":192000000,"tx_speed":10.5,"rx_speed":15.3}}`
	WanStatusPayload  = `{"status":"connected","statusCode":1,"wanIP":"192.168.1.100","gateway":"192.168.1.1","netmask":"255.255.255.0","dns":["8.8.8.8","8.8.4.4"]}`
	OnlineListPayload = `[{"mac":"AA:BB:CC:DD:EE:01","ip":"192.168.1.101"},{"mac":"AA:BB:CC:DD:EE:02","ip":"192.168.1.102"},{"mac":"AA:BB:CC:DD:EE:03","ip":"192.168.1.103"}]`
	DHCPLeasesPayload = `[{"mac":"AA:BB:CC:DD:EE:01","ip":"192.168.1.101","hostname":"Client-1","expires":"86400"},{"mac":"AA:BB:CC:DD:EE:02","ip":"192.168.1.102","hostname":"Client-2","expires":"86400"},{"mac":"AA:BB:CC:DD:EE:03","ip":"192.168.1.103","hostname":"Client-3","expires":"86400"}]`
	NvramDumpPayload  = `{"lan_ipaddr":"192.168.1.1","lan_netmask":"255.255.255.0","lan_gateway":"192.168.1.1","model":"RT-AX88U","firmver":"3.0.0.4","buildno":"386","extendno":"45713"}`

	ClientListFormat0 = `{"AA:BB:CC:DD:EE:01":{"mac":"AA:BB:CC:DD:EE:01","ip":"192.168.1.101","name":"Device-1","isOnline":"1"},"AA:BB:CC:DD:EE:02":{"mac":"AA:BB:CC:DD:EE:02","ip":"192.168.1.102","name":"Device-2","isOnline":"1"},"AA:BB:CC:DD:EE:03":{"mac":"AA:BB:CC:DD:EE:03","ip":"192.168.1.103","name":"Device-3","isOnline":"1"}}`
	ClientListFormat1 = `{"AA:BB:CC:DD:EE:01":{"mac":"AA:BB:CC:DD:EE:01","ip":"192.168.1.101","name":"Device-1","isOnline":"1","isWL":"1","type":"wireless","rssi":"-65","status":"Online"},"AA:BB:CC:DD:EE:02":{"mac":"AA:BB:CC:DD:EE:02","ip":"192.168.1.102","name":"Device-2","isOnline":"1","isWL":"1","type":"wireless","rssi":"-70","status":"Online"},"AA:BB:CC:DD:EE:03":{"mac":"AA:BB:CC:DD:EE:03","ip":"192.168.1.103","name":"Device-3","isOnline":"1","isWL":"0","type":"wired","rssi":"0","status":"Online"}}`
	ClientListFormat2 = `{"get_clientlist":{"AA:BB:CC:DD:EE:01":{"mac":"AA:BB:CC:DD:EE:01","ip":"192.168.1.101","name":"Device-1","rssi":"-65","isOnline":"1","isWL":"1","type":"wireless"},"AA:BB:CC:DD:EE:02":{"mac":"AA:BB:CC:DD:EE:02","ip":"192.168.1.102","name":"Device-2","rssi":"-70","isOnline":"1","isWL":"1","type":"wireless"},"AA:BB:CC:DD:EE:03":{"mac":"AA:BB:CC:DD:EE:03","ip":"192.168.1.103","name":"Device-3","rssi":"0","isOnline":"1","isWL":"0","type":"wired"}}}`
)

// MockRouter is an httptest server emulating the router management API.
type MockRouter struct {
	Server *httptest.Server

	username string
	password string

	mu         sync.Mutex
	tokens     map[string]bool
	nextToken  int
	logins     int
	hookCalls  map[string]int
	overrides  map[string]string
	statuses   map[string]int
	lastParams map[string]string
}

// MockOption configures a MockRouter.
type MockOption func(*mockConfig)

type mockConfig struct {
	tls      bool
	username string
	password string
}

// WithTLS serves over HTTPS with httptest's self-signed certificate.
func WithTLS() MockOption {
	return func(c *mockConfig) { c.tls = true }
}

// WithCredentials changes the accepted username and password.
func WithCredentials(username, password string) MockOption {
	return func(c *mockConfig) {
		c.username = username
		c.password = password
	}
}

// NewMockRouter starts a mock router that is closed when the test ends.
func NewMockRouter(t testing.TB, opts ...MockOption) *MockRouter {
	t.Helper()

	cfg := mockConfig{username: Username, password: Password}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &MockRouter{
		username:   cfg.username,
		password:   cfg.password,
		tokens:     make(map[string]bool),
		hookCalls:  make(map[string]int),
		overrides:  make(map[string]string),
		statuses:   make(map[string]int),
		lastParams: make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login.cgi", m.handleLogin)
	mux.HandleFunc("/appGet.cgi", m.handleAppGet)

	if cfg.tls {
		m.Server = httptest.NewTLSServer(mux)
	} else {
		m.Server = httptest.NewServer(mux)
	}
	t.Cleanup(m.Server.Close)
	return m
}

// URL returns the base URL of the mock router.
func (m *MockRouter) URL() string {
	return m.Server.URL
}

// Host returns the host part of URL.
func (m *MockRouter) Host() string {
	host, _ := m.hostPort()
	return host
}

// Port returns the listening port.
func (m *MockRouter) Port() int {
	_, port := m.hostPort()
	return port
}

func (m *MockRouter) hostPort() (string, int) {
	u, err := url.Parse(m.Server.URL)
	if err != nil {
		return "", 0
	}
	port, _ := strconv.Atoi(u.Port())
	return u.Hostname(), port
}

// SetResponse overrides the payload served for hook.
func (m *MockRouter) SetResponse(hook, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[hook] = body
}

// SetStatus makes hook answer with an HTTP status instead of a payload.
func (m *MockRouter) SetStatus(hook string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[hook] = status
}

// ExpireSessions invalidates every issued token, so the next hook call is
// rejected with 401.
func (m *MockRouter) ExpireSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = make(map[string]bool)
}

// Logins returns the number of successful and failed login attempts.
func (m *MockRouter) Logins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logins
}

// HookCalls returns how many authenticated calls reached hook.
func (m *MockRouter) HookCalls(hook string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hookCalls[hook]
}

// LastParameter returns the parameter of the most recent call to hook.
func (m *MockRouter) LastParameter(hook string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastParams[hook]
}

func (m *MockRouter) handleLogin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	m.mu.Lock()
	m.logins++
	if q.Get("login_username") != m.username || q.Get("login_authorization") != m.password {
		m.mu.Unlock()
		http.Error(w, "error", http.StatusUnauthorized)
		return
	}
	m.nextToken++
	token := fmt.Sprintf("mock_token_%d", m.nextToken)
	m.tokens[token] = true
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "asus_token", Value: token})
	fmt.Fprint(w, token)
}

func (m *MockRouter) handleAppGet(w http.ResponseWriter, r *http.Request) {
	if !m.authenticated(r) {
		http.Error(w, "error", http.StatusUnauthorized)
		return
	}

	hook := r.URL.Query().Get("hook")
	if hook == "" {
		http.Error(w, "error", http.StatusBadRequest)
		return
	}
	param := r.URL.Query().Get("parameter")

	m.mu.Lock()
	m.hookCalls[hook]++
	m.lastParams[hook] = param
	status, hasStatus := m.statuses[hook]
	body, hasOverride := m.overrides[hook]
	m.mu.Unlock()

	if hasStatus {
		http.Error(w, "error", status)
		return
	}
	if !hasOverride {
		body = defaultPayload(hook, param)
	}
	fmt.Fprint(w, body)
}

func (m *MockRouter) authenticated(r *http.Request) bool {
	if user, pass, ok := r.BasicAuth(); ok && user == m.username && pass == m.password {
		return true
	}
	cookie, err := r.Cookie("asus_token")
	if err != nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[cookie.Value]
}

func defaultPayload(hook, param string) string {
	switch hook {
	case "uptime":
		return UptimePayload
	case "memory_usage":
		return MemoryPayload
	case "cpu_usage":
		return CPUPayload
	case "netdev":
		return NetdevPayload
	case "wan_status":
		return WanStatusPayload
	case "onlinelist":
		return OnlineListPayload
	case "dhcp_leases":
		return DHCPLeasesPayload
	case "nvram_dump":
		return NvramDumpPayload
	case "get_clientlist":
		switch param {
		case "", "0":
			return ClientListFormat0
		case "1":
			return ClientListFormat1
		case "2":
			return ClientListFormat2
		default:
			return "{}"
		}
	case "nvram_get":
		fields := strings.Fields(param)
		key := param
		if len(fields) > 0 {
			key = fields[len(fields)-1]
		}
		switch key {
		case "lan_ipaddr", "lan_gateway":
			return "192.168.1.1"
		case "lan_netmask":
			return "255.255.255.0"
		case "model":
			return "RT-AX88U"
		case "firmver":
			return "3.0.0.4"
		default:
			return "unknown"
		}
	case "get_network_device_list":
		if param != "" {
			return fmt.Sprintf(`{"name":%q,"speed":1000,"status":"up","mac":"AA:BB:CC:DD:EE:FF"}`, param)
		}
		return `["eth0","eth1","eth2","wlan0","wlan1"]`
	case "get_wan_link":
		if param == "1" {
			return "0;wan1"
		}
		return "1;wan0"
	case "is_alive":
		return "1"
	default:
		return "error"
	}
}
