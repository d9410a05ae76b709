package cli

import (
	"os"

	"github.com/braid-labs/braid/internal/branding"
	"github.com/braid-labs/braid/internal/config"
	"github.com/braid-labs/braid/internal/updater"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds AI agent projects and manages the MCP servers they
depend on: registry lookups, dependency-ordered docker compose generation,
and health-gated multi-service startup.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Skip banners for commands that manage their own output channel
		// or update state.
		name := cmd.Name()
		if name == "self-update" || name == "init" || name == "serve" {
			return
		}

		// Non-blocking banner from the cached version check.
		u := updater.New(buildVersion)
		u.CheckAndPrintBanner(os.Stderr, config.Dir())
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
