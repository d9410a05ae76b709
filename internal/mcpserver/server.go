// Package mcpserver wires the MCP surface and creates the server instance.
//
// This is the composition root: it creates the concrete registry, compose,
// and deploy helpers and injects them into the tool handlers. No business
// logic lives here, only wiring.
package mcpserver

import (
	"github.com/braid-labs/braid/internal/branding"
	"github.com/braid-labs/braid/internal/registry"
	"github.com/braid-labs/braid/internal/toolcall"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// sources is the ordered list of server registries to resolve from, and
// addedRoot is the directory holding already-added servers. extra is an
// optional registry of callable tools to expose alongside the built-ins.
func New(sources []registry.Source, addedRoot string, extra *toolcall.Registry) *server.MCPServer {
	s := server.NewMCPServer(
		branding.CLIName(),
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	searchTool := NewSearchTool()
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	lookupTool := NewLookupTool()
	s.AddTool(lookupTool.Definition(), lookupTool.Handle)

	planTool := NewAddPlanTool(sources, addedRoot)
	s.AddTool(planTool.Definition(), planTool.Handle)

	composeTool := NewComposeRenderTool(sources)
	s.AddTool(composeTool.Definition(), composeTool.Handle)

	deployTool := NewDeployPlanTool(sources)
	s.AddTool(deployTool.Definition(), deployTool.Handle)

	if extra != nil {
		for _, t := range extra.List() {
			bridge := NewBridge(extra, t)
			s.AddTool(bridge.Definition(), bridge.Handle)
		}
	}

	return s
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// serverInstructions tells the client model how to drive the tools.
func serverInstructions() string {
	return `You have access to the ` + branding.CLIName() + ` agent infrastructure server.

Use registry_search to discover available MCP servers by keyword, and
registry_lookup to pin a server to a version satisfying a semver constraint.

Use server_add_plan before adding a server: it resolves the dependency
tree, flattens it into install order, and reports which API tokens are
missing from the environment. Present missing required tokens to the user
before proceeding.

Use compose_render to generate a docker compose document for a set of
servers, and deploy_plan to see the startup waves the sequencer will use.
Services in the same wave start in parallel; a wave only starts after the
previous wave is healthy.`
}
