// Package e2e drives the stdio server end to end against an in-process
// router.
package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	routermcp "github.com/felixgeelhaar/asus-router-mcp"
	"github.com/felixgeelhaar/asus-router-mcp/config"
	"github.com/felixgeelhaar/asus-router-mcp/protocol"
	"github.com/felixgeelhaar/asus-router-mcp/router"
	"github.com/felixgeelhaar/asus-router-mcp/testutil"
	"github.com/felixgeelhaar/asus-router-mcp/tools"
	"github.com/felixgeelhaar/asus-router-mcp/transport"
)

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *protocol.Error `json:"error"`
}

// session is a running stdio server with a line-by-line conversation.
type session struct {
	t     *testing.T
	mock  *testutil.MockRouter
	stdin *io.PipeWriter
	out   *bufio.Reader
	done  chan error
}

func start(t *testing.T, opts ...testutil.MockOption) *session {
	t.Helper()
	mock := testutil.NewMockRouter(t, opts...)

	cfg := config.Default()
	cfg.Router.Host = mock.Host()
	cfg.Router.Port = mock.Port()
	cfg.Router.Password = testutil.Password

	var httpClient *http.Client
	if mock.Server.TLS != nil {
		cfg.Router.UseHTTPS = true
		httpClient = mock.Server.Client()
	}
	app := routermcp.New(cfg, routermcp.WithHTTPClient(httpClient))

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	s := &session{t: t, mock: mock, stdin: inW, out: bufio.NewReader(outR), done: make(chan error, 1)}
	go func() {
		err := app.ServeStdio(context.Background(), transport.WithStdin(inR), transport.WithStdout(outW))
		_ = outW.Close()
		s.done <- err
	}()

	t.Cleanup(func() {
		_ = inW.Close()
		_ = app.Close()
	})
	return s
}

func (s *session) send(line string) {
	s.t.Helper()
	if _, err := io.WriteString(s.stdin, line+"\n"); err != nil {
		s.t.Fatalf("write request: %v", err)
	}
}

func (s *session) receive() response {
	s.t.Helper()
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := s.out.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			s.t.Fatalf("read response: %v", r.err)
		}
		var resp response
		if err := json.Unmarshal([]byte(r.line), &resp); err != nil {
			s.t.Fatalf("decode %q: %v", r.line, err)
		}
		if resp.JSONRPC != "2.0" {
			s.t.Errorf("jsonrpc = %q, want 2.0", resp.JSONRPC)
		}
		return resp
	case <-time.After(5 * time.Second):
		s.t.Fatal("timed out waiting for a response")
		return response{}
	}
}

func (s *session) call(line string) response {
	s.t.Helper()
	s.send(line)
	return s.receive()
}

func TestStdio_Handshake(t *testing.T) {
	s := start(t)

	resp := s.call(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{}}}`)
	var init struct {
		ProtocolVersion string         `json:"protocolVersion"`
		Capabilities    map[string]any `json:"capabilities"`
	}
	if err := json.Unmarshal(resp.Result, &init); err != nil {
		t.Fatal(err)
	}
	if init.ProtocolVersion != protocol.MCPVersion {
		t.Errorf("protocolVersion = %q, want %q", init.ProtocolVersion, protocol.MCPVersion)
	}
	if _, ok := init.Capabilities["tools"]; !ok {
		t.Error("capabilities.tools missing")
	}

	resp = s.call(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if resp.Error != nil || resp.ID != nil {
		t.Errorf("initialized notification reply = %+v", resp)
	}

	resp = s.call(`{"jsonrpc":"2.0","id":"p","method":"ping"}`)
	if string(resp.ID) != `"p"` || string(resp.Result) != "{}" {
		t.Errorf("ping reply = %+v", resp)
	}
}

func TestStdio_ToolsList(t *testing.T) {
	s := start(t)

	resp := s.call(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	var list struct {
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"inputSchema"`
			Annotations map[string]any `json:"annotations"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Tools) != len(tools.Catalogue) {
		t.Fatalf("listed %d tools, want %d", len(list.Tools), len(tools.Catalogue))
	}
	for i, tool := range list.Tools {
		if tool.Name != tools.Catalogue[i].Name {
			t.Errorf("tool %d = %s, want %s", i, tool.Name, tools.Catalogue[i].Name)
		}
		if tool.InputSchema["type"] != "object" {
			t.Errorf("%s inputSchema.type = %v", tool.Name, tool.InputSchema["type"])
		}
		if tool.Annotations["readOnlyHint"] != true {
			t.Errorf("%s readOnlyHint = %v", tool.Name, tool.Annotations["readOnlyHint"])
		}
	}
}

func TestStdio_Conversation(t *testing.T) {
	s := start(t)

	tests := []struct {
		name     string
		line     string
		wantID   string
		wantCode int
		contains string
	}{
		{"uptime", `{"jsonrpc":"2.0","id":1,"method":"asus_router_get_uptime"}`, "1", 0, `"uptime":450123`},
		{"cpu", `{"jsonrpc":"2.0","id":2,"method":"asus_router_get_cpu_usage"}`, "2", 0, `"cpu1"`},
		{"traffic total", `{"jsonrpc":"2.0","id":3,"method":"asus_router_get_traffic_total"}`, "3", 0, `"sent":2048`},
		{"traffic", `{"jsonrpc":"2.0","id":4,"method":"asus_router_get_traffic"}`, "4", 0, `"tx":10.5`},
		{"online clients", `{"jsonrpc":"2.0","id":5,"method":"asus_router_get_online_clients"}`, "5", 0, `"AA:BB:CC:DD:EE:03"`},
		{"dhcp leases", `{"jsonrpc":"2.0","id":6,"method":"asus_router_get_dhcp_leases"}`, "6", 0, `"hostname":"Client-2"`},
		{"settings", `{"jsonrpc":"2.0","id":7,"method":"asus_router_get_settings"}`, "7", 0, `"RT-AX88U"`},
		{"client full info", `{"jsonrpc":"2.0","id":8,"method":"asus_router_get_client_full_info","params":{"mac":"aa:bb:cc:dd:ee:01"}}`, "8", 0, `"rssi":-65`},
		{"client not found", `{"jsonrpc":"2.0","id":9,"method":"asus_router_get_client_info_summary","params":{"mac":"11:22:33:44:55:66"}}`, "9", router.KindClientNotFound.Code(), ""},
		{"device list", `{"jsonrpc":"2.0","id":10,"method":"asus_router_get_network_device_list"}`, "10", 0, `"wlan1"`},
		{"nvram", `{"jsonrpc":"2.0","id":11,"method":"asus_router_get_nvram","params":{"nvram_command":"nvram get model"}}`, "11", 0, `"RT-AX88U"`},
		{"nvram commit", `{"jsonrpc":"2.0","id":12,"method":"asus_router_get_nvram","params":{"nvram_command":"nvram commit"}}`, "12", router.KindInvalidCommand.Code(), ""},
		{"nvram injection", `{"jsonrpc":"2.0","id":13,"method":"asus_router_get_nvram","params":{"nvram_command":"nvram get x; reboot"}}`, "13", router.KindInvalidCommand.Code(), ""},
		{"is alive", `{"jsonrpc":"2.0","id":14,"method":"asus_router_is_alive"}`, "14", 0, `true`},
		{"unknown method", `{"jsonrpc":"2.0","id":15,"method":"asus_router_reboot"}`, "15", protocol.CodeInvalidParams, ""},
		{"missing method", `{"jsonrpc":"2.0","id":16}`, "16", protocol.CodeInvalidRequest, ""},
		{"array line", `[1,2,3]`, "", protocol.CodeParseError, ""},
		{"parse error", `{"jsonrpc":`, "", protocol.CodeParseError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.call(tt.line)
			if string(resp.ID) != tt.wantID {
				t.Errorf("id = %s, want %s", resp.ID, tt.wantID)
			}
			if tt.wantCode != 0 {
				if resp.Error == nil || resp.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want code %d", resp.Error, tt.wantCode)
				}
				return
			}
			if resp.Error != nil {
				t.Fatalf("unexpected error: %+v", resp.Error)
			}
			if !strings.Contains(string(resp.Result), tt.contains) {
				t.Errorf("result = %s, want it to contain %s", resp.Result, tt.contains)
			}
		})
	}

	if s.mock.Logins() != 1 {
		t.Errorf("logins = %d, want one session for the whole conversation", s.mock.Logins())
	}
}

func TestStdio_ReloginAfterExpiry(t *testing.T) {
	s := start(t)

	if resp := s.call(`{"jsonrpc":"2.0","id":1,"method":"asus_router_get_uptime"}`); resp.Error != nil {
		t.Fatalf("first call: %+v", resp.Error)
	}
	s.mock.ExpireSessions()
	if resp := s.call(`{"jsonrpc":"2.0","id":2,"method":"asus_router_get_uptime"}`); resp.Error != nil {
		t.Fatalf("call after expiry: %+v", resp.Error)
	}
	if s.mock.Logins() != 2 {
		t.Errorf("logins = %d, want 2", s.mock.Logins())
	}
}

func TestStdio_RouterFailures(t *testing.T) {
	s := start(t)
	s.mock.SetStatus(tools.HookWanStatus, http.StatusBadGateway)
	s.mock.SetResponse(tools.HookMemoryUsage, "not;numbers;here")

	resp := s.call(`{"jsonrpc":"2.0","id":1,"method":"asus_router_get_wan_status"}`)
	if resp.Error == nil || resp.Error.Code != router.KindInvalidResponse.Code() {
		t.Errorf("wan status error = %+v", resp.Error)
	}
	resp = s.call(`{"jsonrpc":"2.0","id":2,"method":"asus_router_get_memory_usage"}`)
	if resp.Error == nil || resp.Error.Code != router.KindParseError.Code() {
		t.Errorf("memory error = %+v", resp.Error)
	}

	resp = s.call(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"asus_router_get_wan_status"}}`)
	var result struct {
		IsError bool `json:"isError"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil || !result.IsError {
		t.Errorf("tools/call result = %s, want isError", resp.Result)
	}
}

func TestStdio_TLSRouter(t *testing.T) {
	s := start(t, testutil.WithTLS())

	resp := s.call(`{"jsonrpc":"2.0","id":1,"method":"asus_router_get_wan_link","params":{"unit":1}}`)
	if resp.Error != nil || string(resp.Result) != `"0;wan1"` {
		t.Errorf("wan link = %s, %+v", resp.Result, resp.Error)
	}
}

func TestStdio_CleanShutdownOnEOF(t *testing.T) {
	s := start(t)
	s.call(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)

	_ = s.stdin.Close()
	select {
	case err := <-s.done:
		if err != nil && !errors.Is(err, io.EOF) {
			t.Errorf("ServeStdio() = %v, want nil on EOF", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop at end of input")
	}
}
