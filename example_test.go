package routermcp_test

import (
	"context"
	"fmt"
	"os"
	"strings"

	routermcp "github.com/felixgeelhaar/asus-router-mcp"
	"github.com/felixgeelhaar/asus-router-mcp/config"
	"github.com/felixgeelhaar/asus-router-mcp/server"
	"github.com/felixgeelhaar/asus-router-mcp/tools"
	"github.com/felixgeelhaar/asus-router-mcp/transport"
)

// staticRouter answers every hook with a fixed payload.
type staticRouter map[string]string

func (r staticRouter) ExecuteHook(_ context.Context, hook, _ string) (string, error) {
	return r[hook], nil
}

func Example() {
	cfg, err := config.Load(map[string]string{
		"ASUS_ROUTER_HOST":     "192.168.50.1",
		"ASUS_ROUTER_PASSWORD": "secret",
	}, config.Overrides{})
	if err != nil {
		fmt.Println(err)
		return
	}

	app := routermcp.New(cfg)
	defer app.Close()

	fmt.Println(cfg.Router.BaseURL())
	fmt.Println(len(app.Tools()), "tools")
	// Output:
	// http://192.168.50.1:80
	// 17 tools
}

func Example_engine() {
	srv := server.New(server.Info{Name: "demo", Version: "1.0.0"})
	tools.Register(srv, tools.NewService(staticRouter{
		tools.HookUptime: "Thu, 09 Dec 2025 22:30:00 +0100;90061",
	}))
	engine := server.NewEngine(srv)

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"asus_router_get_uptime"}` + "\n")
	_ = transport.NewStdio(transport.WithStdin(in), transport.WithStdout(os.Stdout)).Serve(context.Background(), engine)
	// Output:
	// {"jsonrpc":"2.0","id":1,"result":{"since":"Thu, 09 Dec 2025 22:30:00 +0100","uptime":90061}}
}
