package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/felixgeelhaar/asus-router-mcp/protocol"
	"github.com/felixgeelhaar/asus-router-mcp/schema"
)

// Tool is a named remote procedure backed by a typed handler.
type Tool struct {
	name          string
	description   string
	errors        []int
	annotations   *ToolAnnotations
	inputType     reflect.Type
	inputSchema   *schema.Schema
	validateInput bool
	handler       reflect.Value
	hasContext    bool
}

// Name returns the tool's method name.
func (t *Tool) Name() string {
	return t.name
}

// ToolBuilder provides a fluent API for building tools.
type ToolBuilder struct {
	tool   *Tool
	server *Server
}

// Description sets the tool description.
func (b *ToolBuilder) Description(desc string) *ToolBuilder {
	b.tool.description = desc
	return b
}

// Errors declares the error codes the tool may return.
func (b *ToolBuilder) Errors(codes ...int) *ToolBuilder {
	b.tool.errors = append(b.tool.errors, codes...)
	return b
}

// ValidateInput checks params against the generated input schema before
// decoding. Failures are InvalidParams.
func (b *ToolBuilder) ValidateInput() *ToolBuilder {
	b.tool.validateInput = true
	return b
}

// Handler sets the handler and registers the tool. The handler must be
// func(T) (R, error) or func(context.Context, T) (R, error), where T is a
// struct. An invalid signature panics, since tools are registered at startup.
func (b *ToolBuilder) Handler(fn any) *Tool {
	if err := b.bind(fn); err != nil {
		panic(fmt.Sprintf("server: tool %q: %v", b.tool.name, err))
	}
	b.server.registerTool(b.tool)
	return b.tool
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

func (b *ToolBuilder) bind(fn any) error {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("handler must be a function, got %T", fn)
	}

	inputIdx := 0
	switch fnType.NumIn() {
	case 1:
	case 2:
		if !fnType.In(0).Implements(contextType) {
			return fmt.Errorf("first parameter must be context.Context when using 2 parameters")
		}
		b.tool.hasContext = true
		inputIdx = 1
	default:
		return fmt.Errorf("handler must have 1 or 2 parameters, got %d", fnType.NumIn())
	}

	if fnType.NumOut() != 2 || !fnType.Out(1).Implements(errorType) {
		return fmt.Errorf("handler must return (result, error)")
	}

	inputType := fnType.In(inputIdx)
	if inputType.Kind() != reflect.Struct {
		return fmt.Errorf("input must be a struct, got %s", inputType)
	}
	inputSchema, err := schema.GenerateFromType(inputType)
	if err != nil {
		return fmt.Errorf("failed to generate input schema: %w", err)
	}

	b.tool.inputType = inputType
	b.tool.inputSchema = inputSchema
	b.tool.handler = reflect.ValueOf(fn)
	return nil
}

// Execute runs the handler with the given params. Absent or null params
// decode to the zero input.
func (t *Tool) Execute(ctx context.Context, params json.RawMessage) (any, error) {
	if p := bytes.TrimSpace(params); len(p) == 0 || bytes.Equal(p, []byte("null")) {
		params = json.RawMessage(`{}`)
	}

	if t.validateInput {
		if err := t.inputSchema.Validate(params); err != nil {
			return nil, protocol.NewInvalidParams(fmt.Sprintf("input validation failed: %v", err))
		}
	}

	input := reflect.New(t.inputType)
	if err := json.Unmarshal(params, input.Interface()); err != nil {
		return nil, protocol.NewInvalidParams(fmt.Sprintf("failed to parse input: %v", err))
	}

	args := make([]reflect.Value, 0, 2)
	if t.hasContext {
		args = append(args, reflect.ValueOf(ctx))
	}
	args = append(args, input.Elem())

	results := t.handler.Call(args)
	if errVal := results[1].Interface(); errVal != nil {
		return nil, errVal.(error)
	}
	return results[0].Interface(), nil
}
