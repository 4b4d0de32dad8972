package tools_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/felixgeelhaar/asus-router-mcp/client"
	"github.com/felixgeelhaar/asus-router-mcp/protocol"
	"github.com/felixgeelhaar/asus-router-mcp/router"
	"github.com/felixgeelhaar/asus-router-mcp/schema"
	"github.com/felixgeelhaar/asus-router-mcp/server"
	"github.com/felixgeelhaar/asus-router-mcp/testutil"
	"github.com/felixgeelhaar/asus-router-mcp/tools"
)

type rpcReply struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
}

func newEngine(t *testing.T) (*server.Engine, *testutil.MockRouter) {
	t.Helper()
	mock := testutil.NewMockRouter(t)
	c := client.New(mock.URL(), testutil.Username, testutil.Password)
	t.Cleanup(func() { _ = c.Close() })

	srv := server.New(server.Info{Name: "asus-router-mcp", Version: "test"})
	tools.Register(srv, tools.NewService(c))
	return server.NewEngine(srv), mock
}

func call(t *testing.T, e *server.Engine, line string) rpcReply {
	t.Helper()
	var reply rpcReply
	out := e.HandleLine(context.Background(), []byte(line))
	if err := json.Unmarshal(out, &reply); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	return reply
}

func TestRegister_CatalogueOrder(t *testing.T) {
	srv := server.New(server.Info{Name: "x", Version: "0"})
	tools.Register(srv, tools.NewService(&fakeExecutor{}))

	listed := srv.Tools()
	if len(listed) != len(tools.Catalogue) || len(listed) != 17 {
		t.Fatalf("registered %d tools, catalogue has %d", len(listed), len(tools.Catalogue))
	}
	for i, info := range listed {
		if info.Name != tools.Catalogue[i].Name {
			t.Errorf("tool %d = %s, want %s", i, info.Name, tools.Catalogue[i].Name)
		}
		if info.Description == "" {
			t.Errorf("%s has no description", info.Name)
		}
		a := info.Annotations
		if a == nil || a.ReadOnlyHint == nil || !*a.ReadOnlyHint || a.OpenWorldHint == nil || *a.OpenWorldHint {
			t.Errorf("%s annotations = %+v", info.Name, a)
		}
	}
}

func TestRegister_InputSchemas(t *testing.T) {
	srv := server.New(server.Info{Name: "x", Version: "0"})
	tools.Register(srv, tools.NewService(&fakeExecutor{}))

	tests := []struct {
		tool     string
		props    []string
		required []string
	}{
		{tools.ToolUptime, nil, nil},
		{tools.ToolClientSummary, []string{"mac"}, []string{"mac"}},
		{tools.ToolNvram, []string{"nvram_command", "command"}, nil},
		{tools.ToolClientList, []string{"format"}, nil},
		{tools.ToolNetworkDeviceList, []string{"device_name", "deviceName"}, nil},
		{tools.ToolWanLink, []string{"unit"}, nil},
		{tools.ToolShowInfo, []string{"detailed"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			var s *schema.Schema
			for _, info := range srv.Tools() {
				if info.Name == tt.tool {
					s, _ = info.InputSchema.(*schema.Schema)
				}
			}
			if s == nil {
				t.Fatalf("%s has no input schema", tt.tool)
			}
			if s.Type != "object" {
				t.Errorf("Type = %q, want object", s.Type)
			}
			if len(s.Properties) != len(tt.props) {
				t.Errorf("properties = %v, want %v", s.Properties, tt.props)
			}
			for _, p := range tt.props {
				if _, ok := s.Properties[p]; !ok {
					t.Errorf("missing property %q", p)
				}
			}
			if strings.Join(s.Required, ",") != strings.Join(tt.required, ",") {
				t.Errorf("Required = %v, want %v", s.Required, tt.required)
			}
		})
	}
}

func TestRegister_Dispatch(t *testing.T) {
	e, _ := newEngine(t)

	tests := []struct {
		name       string
		line       string
		wantCode   int
		wantResult string
	}{
		{
			name:       "uptime",
			line:       `{"jsonrpc":"2.0","id":1,"method":"asus_router_get_uptime"}`,
			wantResult: `"uptime":450123`,
		},
		{
			name:       "client summary by dashed mac",
			line:       `{"jsonrpc":"2.0","id":2,"method":"asus_router_get_client_info_summary","params":{"mac":"aa-bb-cc-dd-ee-01"}}`,
			wantResult: `"name":"Device-1"`,
		},
		{
			name:     "unknown client",
			line:     `{"jsonrpc":"2.0","id":3,"method":"asus_router_get_client_full_info","params":{"mac":"00:11:22:33:44:55"}}`,
			wantCode: router.KindClientNotFound.Code(),
		},
		{
			name:     "malformed mac",
			line:     `{"jsonrpc":"2.0","id":4,"method":"asus_router_get_client_full_info","params":{"mac":"not-a-mac"}}`,
			wantCode: protocol.CodeInvalidParams,
		},
		{
			name:     "missing mac",
			line:     `{"jsonrpc":"2.0","id":5,"method":"asus_router_get_client_full_info","params":{}}`,
			wantCode: protocol.CodeInvalidParams,
		},
		{
			name:       "nvram via alias",
			line:       `{"jsonrpc":"2.0","id":6,"method":"asus_router_get_nvram","params":{"command":"nvram get lan_ipaddr"}}`,
			wantResult: `"192.168.1.1"`,
		},
		{
			name:     "nvram write rejected",
			line:     `{"jsonrpc":"2.0","id":7,"method":"asus_router_get_nvram","params":{"nvram_command":"nvram set x=1"}}`,
			wantCode: router.KindInvalidCommand.Code(),
		},
		{
			name:     "nvram missing command",
			line:     `{"jsonrpc":"2.0","id":8,"method":"asus_router_get_nvram","params":{}}`,
			wantCode: router.KindInvalidCommand.Code(),
		},
		{
			name:       "client list embeds json",
			line:       `{"jsonrpc":"2.0","id":9,"method":"asus_router_get_client_list","params":{"format":5}}`,
			wantResult: `"AA:BB:CC:DD:EE:01"`,
		},
		{
			name:       "device list via alias",
			line:       `{"jsonrpc":"2.0","id":10,"method":"asus_router_get_network_device_list","params":{"deviceName":"eth1"}}`,
			wantResult: `"name":"eth1"`,
		},
		{
			name:       "wan link text",
			line:       `{"jsonrpc":"2.0","id":11,"method":"asus_router_get_wan_link","params":{"unit":1}}`,
			wantResult: `"0;wan1"`,
		},
		{
			name:       "is alive",
			line:       `{"jsonrpc":"2.0","id":12,"method":"asus_router_is_alive"}`,
			wantResult: `true`,
		},
		{
			name:     "wrong param type",
			line:     `{"jsonrpc":"2.0","id":13,"method":"asus_router_get_wan_link","params":{"unit":"one"}}`,
			wantCode: protocol.CodeInvalidParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := call(t, e, tt.line)
			if tt.wantCode != 0 {
				if reply.Error == nil {
					t.Fatalf("expected error %d, got result %s", tt.wantCode, reply.Result)
				}
				if reply.Error.Code != tt.wantCode {
					t.Errorf("code = %d, want %d (%s)", reply.Error.Code, tt.wantCode, reply.Error.Message)
				}
				return
			}
			if reply.Error != nil {
				t.Fatalf("unexpected error: %+v", reply.Error)
			}
			if !strings.Contains(string(reply.Result), tt.wantResult) {
				t.Errorf("result = %s, want it to contain %s", reply.Result, tt.wantResult)
			}
		})
	}
}

func TestRegister_ToolsCall(t *testing.T) {
	e, mock := newEngine(t)
	mock.SetResponse(tools.HookMemoryUsage, "garbage")

	reply := call(t, e, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"asus_router_show_info","arguments":{"detailed":true}}}`)
	if reply.Error != nil {
		t.Fatalf("unexpected error: %+v", reply.Error)
	}
	var result server.CallResult
	if err := json.Unmarshal(reply.Result, &result); err != nil {
		t.Fatal(err)
	}
	if result.IsError || len(result.Content) != 1 {
		t.Fatalf("result = %+v", result)
	}
	text := result.Content[0].Text
	if !strings.Contains(text, "Memory:") || !strings.Contains(text, "ERROR - ") {
		t.Errorf("report does not flag the memory section:\n%s", text)
	}
	if !strings.Contains(text, "192.168.1.103") {
		t.Errorf("detailed report misses client table:\n%s", text)
	}

	reply = call(t, e, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"asus_router_get_client_full_info","arguments":{"mac":"00:00:00:00:00:09"}}}`)
	if reply.Error != nil {
		t.Fatalf("unexpected error: %+v", reply.Error)
	}
	if err := json.Unmarshal(reply.Result, &result); err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Errorf("client lookup miss should be an isError result: %+v", result)
	}
}
