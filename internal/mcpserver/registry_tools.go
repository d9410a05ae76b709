package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/braid-labs/braid/internal/registry"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchTool handles the registry_search MCP tool. It queries the curated
// server index by keyword.
type SearchTool struct{}

// NewSearchTool creates a SearchTool.
func NewSearchTool() *SearchTool {
	return &SearchTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("registry_search",
		mcp.WithDescription(
			"Search the curated MCP server index by keyword. "+
				"Matches server names and descriptions, case-insensitive. "+
				"An empty query lists every known server.",
		),
		mcp.WithString("query",
			mcp.Description("Search keyword, e.g. 'slack' or 'database'"),
		),
	)
}

// Handle processes the registry_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx, err := registry.BuiltinIndex()
	if err != nil {
		return nil, fmt.Errorf("loading server index: %w", err)
	}

	entries := idx.Search(req.GetString("query", ""))
	if len(entries) == 0 {
		return mcp.NewToolResultText("No servers match the query."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d server(s):\n\n", len(entries))
	for _, e := range entries {
		latest := ""
		if len(e.Versions) > 0 {
			latest = e.Versions[0].Version
		}
		fmt.Fprintf(&b, "- %s (%s, %s): %s\n", e.Name, latest, e.Transport, e.Description)
	}

	return mcp.NewToolResultText(b.String()), nil
}

// LookupTool handles the registry_lookup MCP tool. It resolves a server
// name plus semver constraint to a concrete version and image.
type LookupTool struct{}

// NewLookupTool creates a LookupTool.
func NewLookupTool() *LookupTool {
	return &LookupTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *LookupTool) Definition() mcp.Tool {
	return mcp.NewTool("registry_lookup",
		mcp.WithDescription(
			"Resolve a server name and optional semver constraint to a "+
				"concrete version and container image from the index. "+
				"The highest satisfying version wins.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Server name, e.g. 'notion'"),
		),
		mcp.WithString("constraint",
			mcp.Description("Semver constraint, e.g. '^1.0' or '>=3.1.0'. Empty selects the latest."),
		),
	)
}

// Handle processes the registry_lookup tool call.
func (t *LookupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	idx, err := registry.BuiltinIndex()
	if err != nil {
		return nil, fmt.Errorf("loading server index: %w", err)
	}

	entry, version, err := idx.Lookup(name, req.GetString("constraint", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("%s %s\nImage: %s\nTransport: %s", entry.Name, version.Version, version.Image, entry.Transport)
	if entry.Port > 0 {
		text += fmt.Sprintf("\nPort: %d", entry.Port)
	}
	if entry.Health != "" {
		text += fmt.Sprintf("\nHealth: %s", entry.Health)
	}

	return mcp.NewToolResultText(text), nil
}

// AddPlanTool handles the server_add_plan MCP tool. It resolves the
// dependency tree for a server and reports install order and token status.
type AddPlanTool struct {
	sources   []registry.Source
	addedRoot string
}

// NewAddPlanTool creates an AddPlanTool over the given registry sources.
func NewAddPlanTool(sources []registry.Source, addedRoot string) *AddPlanTool {
	return &AddPlanTool{sources: sources, addedRoot: addedRoot}
}

// Definition returns the MCP tool definition for registration.
func (t *AddPlanTool) Definition() mcp.Tool {
	return mcp.NewTool("server_add_plan",
		mcp.WithDescription(
			"Build the add plan for an MCP server: resolve its dependency "+
				"tree across the configured registries, flatten it into install "+
				"order (dependencies first), and report which declared API "+
				"tokens are missing from the environment.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Server name to plan for"),
		),
		mcp.WithBoolean("no_deps",
			mcp.Description("Plan only the named server, skipping dependency resolution"),
		),
	)
}

// Handle processes the server_add_plan tool call.
func (t *AddPlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	plan, err := registry.BuildAddPlan(name, t.sources, t.addedRoot, req.GetBool("no_deps", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	registry.PrintPlan(&b, plan)

	fmt.Fprintln(&b, "Install order:")
	for i, s := range plan.AllServers {
		fmt.Fprintf(&b, "  %d. %s (from %s)\n", i+1, s.Name, s.SourceName)
	}

	return mcp.NewToolResultText(b.String()), nil
}
