package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/braid-labs/braid/internal/branding"
	"github.com/braid-labs/braid/internal/compose"
	"github.com/braid-labs/braid/internal/detect"
	"github.com/braid-labs/braid/internal/registry"
	"github.com/braid-labs/braid/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	addNoDeps     bool
	addDryRun     bool
	addConstraint string
)

func init() {
	serverAddCmd.Flags().BoolVar(&addNoDeps, "no-deps", false, "Add only the named server, skip dependencies")
	serverAddCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Show the add plan without copying anything")
	serverAddCmd.Flags().StringVar(&addConstraint, "version", "", "Semver constraint for index lookups, e.g. '^1.0'")

	serverCmd.AddCommand(serverAddCmd)
	serverCmd.AddCommand(serverListCmd)
	serverCmd.AddCommand(serverRemoveCmd)
	serverCmd.AddCommand(serverDetectCmd)
	rootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage MCP servers",
	Long:  `Add, list, remove, and inspect the MCP servers an agent project depends on.`,
}

var serverAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an MCP server and its dependencies",
	Long: `Resolve a server against the configured registries (falling back to the
curated index), show its dependency tree, and copy each server into
~/.braid/servers in install order.

Examples:
  braid server add notion
  braid server add mongodb --version '^3.1'
  braid server add agent-gw --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		sources, err := buildSources()
		if err != nil {
			return err
		}
		serversRoot, err := userdata.GetServersRoot()
		if err != nil {
			return err
		}

		plan, err := registry.BuildAddPlan(name, sources, serversRoot, addNoDeps)
		if err != nil {
			// Unknown in the registries: try the curated index.
			if idxErr := materializeFromIndex(name, addConstraint); idxErr != nil {
				return fmt.Errorf("resolving %s: %w (index: %v)", name, err, idxErr)
			}
			plan, err = registry.BuildAddPlan(name, sources, serversRoot, addNoDeps)
			if err != nil {
				return err
			}
		}

		registry.PrintPlan(os.Stdout, plan)

		if addDryRun {
			fmt.Println("Dry run, nothing copied.")
			return nil
		}

		if err := os.MkdirAll(serversRoot, 0755); err != nil {
			return fmt.Errorf("creating servers directory: %w", err)
		}

		for _, resolved := range plan.AllServers {
			if err := registry.AddServer(resolved, serversRoot); err != nil {
				return err
			}
			fmt.Printf("  Added %s (from %s)\n", resolved.Name, resolved.SourceName)
		}

		fmt.Printf("\nDone. Generate the stack with '%s compose'.\n", branding.CLIName())
		return nil
	},
}

var serverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List added servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		serversRoot, err := userdata.GetServersRoot()
		if err != nil {
			return err
		}

		names, err := registry.ListAdded(serversRoot)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Printf("No servers added. Run '%s server add <name>'.\n", branding.CLIName())
			return nil
		}

		addedSource := []registry.Source{{Name: "added", BasePath: serversRoot}}
		for _, name := range names {
			resolved, err := registry.ResolveServer(name, addedSource)
			if err != nil {
				fmt.Printf("  %s (manifest error: %v)\n", name, err)
				continue
			}
			m := resolved.Manifest
			detail := m.Transport
			if m.Port > 0 {
				detail = fmt.Sprintf("%s, port %d", detail, m.Port)
			}
			fmt.Printf("  %s %s (%s)\n", m.Name, m.Version, detail)
		}
		return nil
	},
}

var serverRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an added server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		serversRoot, err := userdata.GetServersRoot()
		if err != nil {
			return err
		}
		if err := registry.RemoveServer(args[0], serversRoot); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

var detectWriteDockerfile bool

func init() {
	serverDetectCmd.Flags().BoolVar(&detectWriteDockerfile, "dockerfile", false, "Write a generated Dockerfile into the directory")
}

var serverDetectCmd = &cobra.Command{
	Use:   "detect [dir]",
	Short: "Detect the runtime of a server directory",
	Long: `Probe a server template directory for build markers (Dockerfile, go.mod,
package.json, pyproject.toml, requirements.txt) and report the runtime.
With --dockerfile, also generate a Dockerfile for the detected runtime.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		detection, err := detect.Dir(dir)
		if err != nil {
			return err
		}
		fmt.Printf("Runtime: %s (marker: %s)\n", detection.Runtime, detection.Marker)

		if !detectWriteDockerfile {
			return nil
		}

		if detection.Runtime == detect.RuntimeDocker {
			fmt.Println("Directory ships its own Dockerfile, nothing to generate.")
			return nil
		}

		data := compose.DockerfileData{HealthEndpoint: detection.DefaultHealth}
		// Pick up the declared port when a manifest is present.
		if resolved, rErr := registry.ResolveServer(filepath.Base(dir), []registry.Source{{Name: "local", BasePath: filepath.Dir(dir)}}); rErr == nil {
			data.Port = resolved.Manifest.Port
			if resolved.Manifest.Health != nil && resolved.Manifest.Health.Endpoint != "" {
				data.HealthEndpoint = resolved.Manifest.Health.Endpoint
			}
		}

		dockerfile, err := compose.Dockerfile(detection.Runtime, data)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, "Dockerfile")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}
		if err := os.WriteFile(path, dockerfile, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}
