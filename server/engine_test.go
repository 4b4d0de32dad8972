package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/asus-router-mcp/middleware"
	"github.com/felixgeelhaar/asus-router-mcp/protocol"
)

type wireResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
}

func decodeLine(t *testing.T, line []byte) wireResponse {
	t.Helper()
	var resp wireResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("response %s is not JSON: %v", line, err)
	}
	return resp
}

func TestEngine_HandleLine(t *testing.T) {
	engine := NewEngine(newTestServer(), WithMiddleware(middleware.DefaultStack(middleware.NopLogger{})...))

	tests := []struct {
		name       string
		line       string
		wantID     string
		wantResult string
		wantCode   int
		wantData   string
	}{
		{
			name:       "tool call",
			line:       `{"jsonrpc":"2.0","id":1,"method":"asus_router_get_uptime"}`,
			wantID:     `1`,
			wantResult: `{"uptime":3600}`,
		},
		{
			name:       "string id",
			line:       `{"jsonrpc":"2.0","id":"abc","method":"ping"}`,
			wantID:     `"abc"`,
			wantResult: `{}`,
		},
		{
			name:     "parse error has no id",
			line:     `{"jsonrpc":"2.0","id":1,"method":`,
			wantCode: protocol.CodeParseError,
		},
		{
			name:     "array is not a request",
			line:     `[1,2]`,
			wantCode: protocol.CodeParseError,
		},
		{
			name:     "number is not a request",
			line:     `42`,
			wantCode: protocol.CodeParseError,
		},
		{
			name:     "method of wrong type",
			line:     `{"jsonrpc":"2.0","id":1,"method":5}`,
			wantCode: protocol.CodeParseError,
		},
		{
			name:     "missing method",
			line:     `{"jsonrpc":"2.0","id":7}`,
			wantID:   `7`,
			wantCode: protocol.CodeInvalidRequest,
		},
		{
			name:     "unknown method",
			line:     `{"jsonrpc":"2.0","id":2,"method":"nope"}`,
			wantID:   `2`,
			wantCode: protocol.CodeInvalidParams,
			wantData: `"nope"`,
		},
		{
			name:     "router error",
			line:     `{"jsonrpc":"2.0","id":3,"method":"asus_router_get_nvram"}`,
			wantID:   `3`,
			wantCode: -32007,
			wantData: `{"name":"INVALID_COMMAND"}`,
		},
		{
			name:       "notification still answered",
			line:       `{"jsonrpc":"2.0","method":"notifications/initialized"}`,
			wantResult: `{}`,
		},
		{
			name:     "invalid params",
			line:     `{"jsonrpc":"2.0","id":4,"method":"asus_router_get_client_info_summary","params":{"mac":7}}`,
			wantID:   `4`,
			wantCode: protocol.CodeInvalidParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decodeLine(t, engine.HandleLine(context.Background(), []byte(tt.line)))

			if resp.JSONRPC != "2.0" {
				t.Errorf("jsonrpc = %q, want 2.0", resp.JSONRPC)
			}
			if string(resp.ID) != tt.wantID {
				t.Errorf("id = %s, want %s", resp.ID, tt.wantID)
			}
			if tt.wantCode != 0 {
				if resp.Error == nil {
					t.Fatalf("error missing, result = %s", resp.Result)
				}
				if resp.Result != nil {
					t.Errorf("result = %s alongside error", resp.Result)
				}
				if resp.Error.Code != tt.wantCode {
					t.Errorf("code = %d, want %d", resp.Error.Code, tt.wantCode)
				}
				if tt.wantData != "" && string(resp.Error.Data) != tt.wantData {
					t.Errorf("data = %s, want %s", resp.Error.Data, tt.wantData)
				}
				return
			}
			if resp.Error != nil {
				t.Fatalf("unexpected error: %+v", resp.Error)
			}
			if string(resp.Result) != tt.wantResult {
				t.Errorf("result = %s, want %s", resp.Result, tt.wantResult)
			}
		})
	}
}

func TestEngine_RecoversPanics(t *testing.T) {
	srv := New(Info{Name: "test"})
	srv.Tool("explode").Handler(func(context.Context, emptyInput) (string, error) {
		panic("nil pointer")
	})
	engine := NewEngine(srv, WithMiddleware(middleware.Recover()))

	resp := decodeLine(t, engine.HandleLine(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"explode"}`)))
	if resp.Error == nil || resp.Error.Code != protocol.CodeInternalError {
		t.Fatalf("error = %+v, want InternalError", resp.Error)
	}

	// The engine keeps serving after a panic.
	resp = decodeLine(t, engine.HandleLine(context.Background(), []byte(`{"jsonrpc":"2.0","id":2,"method":"ping"}`)))
	if resp.Error != nil {
		t.Errorf("ping after panic failed: %+v", resp.Error)
	}
}

func TestEngine_UnencodableResult(t *testing.T) {
	srv := New(Info{Name: "test"})
	srv.Tool("bad").Handler(func(context.Context, emptyInput) (any, error) {
		return map[string]any{"ch": make(chan int)}, nil
	})
	engine := NewEngine(srv)

	resp := decodeLine(t, engine.HandleLine(context.Background(), []byte(`{"jsonrpc":"2.0","id":9,"method":"bad"}`)))
	if string(resp.ID) != "9" {
		t.Errorf("id = %s, want 9", resp.ID)
	}
	if resp.Error == nil || resp.Error.Code != protocol.CodeInternalError {
		t.Errorf("error = %+v, want InternalError", resp.Error)
	}
}

func TestEngine_FalseResult(t *testing.T) {
	srv := New(Info{Name: "test"})
	srv.Tool("asus_router_is_alive").Handler(func(context.Context, emptyInput) (bool, error) {
		return false, nil
	})

	line := NewEngine(srv).HandleLine(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"asus_router_is_alive"}`))
	if string(line) != `{"jsonrpc":"2.0","id":1,"result":false}` {
		t.Errorf("line = %s", line)
	}
}
