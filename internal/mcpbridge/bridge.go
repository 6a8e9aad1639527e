// Package mcpbridge exposes the methods of a schema registry as MCP tools
// served over stdio.
package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"k8s.io/klog/v2"

	"github.com/centreon/engine-rpc/internal/inputschema"
	"github.com/centreon/engine-rpc/internal/rpcclient"
	"github.com/centreon/engine-rpc/internal/schema"
	"github.com/centreon/engine-rpc/internal/translate"
)

const serverName = "engine-rpc"

// Bridge owns an MCP server with one tool per registry method. Every
// tool call dials the engine on its own channel.
type Bridge struct {
	target  rpcclient.Target
	timeout time.Duration
	version string
	server  *server.MCPServer
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTimeout bounds every call. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.timeout = d }
}

// WithVersion sets the version announced to clients.
func WithVersion(v string) Option {
	return func(b *Bridge) { b.version = v }
}

// New registers every method of reg as a tool calling target.
func New(reg *schema.Registry, target rpcclient.Target, opts ...Option) (*Bridge, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	b := &Bridge{target: target, version: "dev"}
	for _, opt := range opts {
		opt(b)
	}
	b.server = server.NewMCPServer(serverName, b.version,
		server.WithToolCapabilities(false),
		server.WithInstructions(fmt.Sprintf("Each tool calls the %s method of the same name on the engine at %s.", reg.Service(), target.Addr())),
	)

	for m := range reg.Methods() {
		tool, handler, err := b.tool(m)
		if err != nil {
			return nil, err
		}
		b.server.AddTool(tool, handler)
	}
	klog.V(1).InfoS("mcp bridge ready", "service", reg.Service(), "tools", reg.Len(), "target", target.Addr())
	return b, nil
}

// Server returns the underlying MCP server.
func (b *Bridge) Server() *server.MCPServer {
	return b.server
}

// ServeStdio serves MCP over stdin and stdout until stdin closes.
func (b *Bridge) ServeStdio() error {
	return server.ServeStdio(b.server)
}

func (b *Bridge) tool(m *schema.Method) (mcp.Tool, server.ToolHandlerFunc, error) {
	s := inputschema.ForMethod(m)
	raw, err := json.Marshal(s)
	if err != nil {
		return mcp.Tool{}, nil, fmt.Errorf("encoding %s input schema: %w", m.Name, err)
	}
	v, err := inputschema.Compile(m.Name, s)
	if err != nil {
		return mcp.Tool{}, nil, err
	}

	tool := mcp.NewToolWithRawSchema(m.Name, toolDescription(m), raw)
	if strings.HasPrefix(m.Name, "Get") {
		mcp.WithReadOnlyHintAnnotation(true)(&tool)
	}
	return tool, b.handler(m, v), nil
}

func toolDescription(m *schema.Method) string {
	parts := []string{}
	if c := strings.Join(strings.Fields(m.Comments()), " "); c != "" {
		parts = append(parts, c)
	}
	parts = append(parts, fmt.Sprintf("Takes %s, returns %s.", m.Input.FullName(), m.Output.FullName()))
	if m.HasEmptyInput() {
		parts = append(parts, "No arguments.")
	}
	return strings.Join(parts, " ")
}

func (b *Bridge) handler(m *schema.Method, v *inputschema.Validator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetRawArguments()
		if args == nil {
			args = map[string]any{}
		}
		if err := v.Validate(args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments for %s: %v", m.Name, err)), nil
		}

		payload, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("encoding arguments: %w", err)
		}
		msg, err := translate.ToMessage(m, payload)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if b.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}
		resp, err := rpcclient.Call(ctx, b.target, m, msg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		text, err := translate.ToJSON(resp)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(text), nil
	}
}
