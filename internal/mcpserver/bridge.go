package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/braid-labs/braid/internal/toolcall"
	"github.com/mark3labs/mcp-go/mcp"
)

// Bridge exposes one toolcall.Tool over MCP. The tool's declared inputs
// become the MCP schema; dispatch validation (required fields, types,
// defaults) runs before the tool is invoked.
type Bridge struct {
	reg  *toolcall.Registry
	tool toolcall.Tool
}

// NewBridge creates a Bridge for a registered tool.
func NewBridge(reg *toolcall.Registry, tool toolcall.Tool) *Bridge {
	return &Bridge{reg: reg, tool: tool}
}

// Definition returns the MCP tool definition for registration.
func (b *Bridge) Definition() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(b.tool.Description())}

	for _, f := range b.tool.Inputs() {
		var propOpts []mcp.PropertyOption
		if f.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if f.Description != "" {
			propOpts = append(propOpts, mcp.Description(f.Description))
		}

		switch f.Type {
		case "number":
			opts = append(opts, mcp.WithNumber(f.Name, propOpts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(f.Name, propOpts...))
		case "object", "array":
			// Carried as a JSON string on the wire; decoded in Handle.
			propOpts = append(propOpts, mcp.Description("JSON-encoded "+f.Type))
			opts = append(opts, mcp.WithString(f.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(f.Name, propOpts...))
		}
	}

	return mcp.NewTool(b.tool.Name(), opts...)
}

// Handle processes a call by dispatching through the tool registry.
func (b *Bridge) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	b.decodeStructured(args)

	result, err := toolcall.Dispatch(ctx, b.reg, b.tool.Name(), args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result.Content), nil
}

// decodeStructured rewrites JSON-string arguments for object and array
// inputs back into their structured form.
func (b *Bridge) decodeStructured(args map[string]any) {
	for _, f := range b.tool.Inputs() {
		if f.Type != "object" && f.Type != "array" {
			continue
		}
		raw, ok := args[f.Name].(string)
		if !ok {
			continue
		}
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			args[f.Name] = decoded
		}
	}
}
