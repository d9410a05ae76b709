package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/braid-labs/braid/internal/compose"
	"github.com/braid-labs/braid/internal/deploy"
	"github.com/braid-labs/braid/internal/registry"
	"github.com/mark3labs/mcp-go/mcp"
)

// splitNames parses a comma-separated server list, trimming whitespace and
// dropping empty items.
func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// resolveAll resolves each named server against the registry sources.
func resolveAll(names []string, sources []registry.Source) ([]*registry.ResolvedServer, error) {
	out := make([]*registry.ResolvedServer, 0, len(names))
	for _, name := range names {
		resolved, err := registry.ResolveServer(name, sources)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// ComposeRenderTool handles the compose_render MCP tool. It generates a
// docker compose document for a set of servers.
type ComposeRenderTool struct {
	sources []registry.Source
}

// NewComposeRenderTool creates a ComposeRenderTool over the given sources.
func NewComposeRenderTool(sources []registry.Source) *ComposeRenderTool {
	return &ComposeRenderTool{sources: sources}
}

// Definition returns the MCP tool definition for registration.
func (t *ComposeRenderTool) Definition() mcp.Tool {
	return mcp.NewTool("compose_render",
		mcp.WithDescription(
			"Render a docker compose document for a set of MCP servers. "+
				"Each server gets restart policy, port mapping, token "+
				"pass-through environment, a healthcheck when the manifest "+
				"declares one, and depends_on conditions (service_healthy for "+
				"probed dependencies, service_started otherwise).",
		),
		mcp.WithString("servers",
			mcp.Required(),
			mcp.Description("Comma-separated server names, e.g. 'mongodb,notion'"),
		),
	)
}

// Handle processes the compose_render tool call.
func (t *ComposeRenderTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := splitNames(req.GetString("servers", ""))
	if len(names) == 0 {
		return mcp.NewToolResultError("'servers' is required"), nil
	}

	servers, err := resolveAll(names, t.sources)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	probed := make(map[string]bool, len(servers))
	for _, s := range servers {
		probed[s.Manifest.Name] = compose.HasHealth(s.Manifest)
	}

	doc := compose.NewDocument()
	for _, s := range servers {
		svc, err := compose.Fragment(s.Manifest, s.SourceDir, func(dep string) bool { return probed[dep] })
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := doc.AddService(s.Manifest.Name, svc); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	if err := doc.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("rendering compose document: %w", err)
	}

	return mcp.NewToolResultText(string(out)), nil
}

// DeployPlanTool handles the deploy_plan MCP tool. It shows the startup
// waves the sequencer will use for a set of servers.
type DeployPlanTool struct {
	sources []registry.Source
}

// NewDeployPlanTool creates a DeployPlanTool over the given sources.
func NewDeployPlanTool(sources []registry.Source) *DeployPlanTool {
	return &DeployPlanTool{sources: sources}
}

// Definition returns the MCP tool definition for registration.
func (t *DeployPlanTool) Definition() mcp.Tool {
	return mcp.NewTool("deploy_plan",
		mcp.WithDescription(
			"Compute the startup waves for a set of MCP servers. Wave 1 has "+
				"no dependencies; each later wave starts only after the previous "+
				"wave reports healthy. Services within a wave start in parallel.",
		),
		mcp.WithString("servers",
			mcp.Required(),
			mcp.Description("Comma-separated server names"),
		),
	)
}

// Handle processes the deploy_plan tool call.
func (t *DeployPlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := splitNames(req.GetString("servers", ""))
	if len(names) == 0 {
		return mcp.NewToolResultError("'servers' is required"), nil
	}

	servers, err := resolveAll(names, t.sources)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	specs := make([]deploy.ServiceSpec, 0, len(servers))
	for _, s := range servers {
		specs = append(specs, deploy.SpecFromManifest(s.Manifest))
	}

	waves, err := deploy.BuildWaves(specs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	for i, wave := range waves {
		fmt.Fprintf(&b, "Wave %d:\n", i+1)
		for _, s := range wave {
			detail := "no health probe"
			if s.HealthURL != "" {
				detail = s.HealthURL
			}
			if s.Optional {
				detail += ", optional"
			}
			fmt.Fprintf(&b, "  - %s (%s)\n", s.Name, detail)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
