package cli

import (
	"github.com/braid-labs/braid/internal/branding"
	"github.com/braid-labs/braid/internal/mcpserver"
	"github.com/braid-labs/braid/internal/userdata"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run " + branding.DisplayName() + " as an MCP server on stdio",
	Long: `Expose the registry, compose, and deploy-planning operations as MCP
tools over stdio, so an AI client can drive them directly. Stdout is the
protocol channel; diagnostics go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := buildSources()
		if err != nil {
			return err
		}
		serversRoot, err := userdata.GetServersRoot()
		if err != nil {
			return err
		}

		mcpserver.Version = buildVersion
		s := mcpserver.New(sources, serversRoot, nil)
		return mcpserver.ServeStdio(s)
	},
}
