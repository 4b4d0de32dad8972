// Package server holds the tool registry, the JSON-RPC dispatcher and the
// line-oriented protocol engine.
//
// Tools are registered once at startup with the fluent builder. The input
// schema is generated from the handler's input struct:
//
//	type clientInput struct {
//	    MAC string `json:"mac" jsonschema:"required"`
//	}
//
//	srv := server.New(server.Info{Name: "asus-router-mcp", Version: "1.0.0"})
//	srv.Tool("asus_router_get_client_info_summary").
//	    Description("Summary of one client").
//	    Errors(-32001, -32002, -32003, -32004).
//	    ReadOnly().
//	    ValidateInput().
//	    Handler(func(ctx context.Context, in clientInput) (router.ClientSummary, error) {
//	        ...
//	    })
//
// Engine.HandleLine is the whole protocol contract: one request line in,
// one response line out. Decoding failures are answered with ParseError and
// no id. Router failures carry their domain code and a data object with the
// stable error name.
package server
