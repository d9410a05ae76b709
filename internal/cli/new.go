package cli

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/braid-labs/braid/internal/branding"
	"github.com/braid-labs/braid/internal/scaffold"
	"github.com/spf13/cobra"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Shared flag for all new subcommands.
var newOutputDir string

func init() {
	newCmd.PersistentFlags().StringVar(&newOutputDir, "output-dir", "", "Output directory (default: ./<name>)")
	rootCmd.AddCommand(newCmd)

	newCmd.AddCommand(newAgentCmd)
	newCmd.AddCommand(newToolCmd)
	newCmd.AddCommand(newServerCmd)
	newCmd.AddCommand(newWorkflowCmd)
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Scaffold a new " + branding.DisplayName() + " project from a template",
	Long:  `Create a new agent, tool, server, or workflow from built-in scaffolding templates.`,
}

// ─── new agent ─────────────────────────────────────────────────────

var newAgentCmd = &cobra.Command{
	Use:   "agent <name>",
	Short: "Scaffold a new agent",
	Long: `Scaffold a new agent project with a manifest, system prompt, and env file.

Example:
  braid new agent forecast-agent`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validateName(name); err != nil {
			return err
		}

		data := scaffold.NewScaffoldData(name, "agent", "")
		result, err := scaffold.Generate("agent", data, resolveOutputDir(name))
		if err != nil {
			return err
		}

		printResult("agent", result)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Edit prompt.md with the agent's system prompt")
		fmt.Println("  2. List the servers it needs in agent.yaml")
		fmt.Printf("  3. Add them with '%s server add <name>'\n", branding.CLIName())
		return nil
	},
}

// ─── new tool ──────────────────────────────────────────────────────

var newToolCmd = &cobra.Command{
	Use:   "tool <name>",
	Short: "Scaffold a new HTTP tool",
	Long: `Scaffold a new HTTP tool manifest that wraps a SaaS API endpoint.

Example:
  braid new tool slack-post`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validateName(name); err != nil {
			return err
		}

		data := scaffold.NewScaffoldData(name, "tool", "")
		result, err := scaffold.Generate("tool", data, resolveOutputDir(name))
		if err != nil {
			return err
		}

		printResult("tool", result)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Set the endpoint and inputs in tool.yaml")
		fmt.Println("  2. Export the API token named by token_env")
		return nil
	},
}

// ─── new server ────────────────────────────────────────────────────

var serverRuntime string

var newServerCmd = &cobra.Command{
	Use:   "server <name>",
	Short: "Scaffold a new MCP server",
	Long: `Scaffold a new MCP server with a manifest and runtime boilerplate.

Examples:
  braid new server my-server --runtime go
  braid new server my-server --runtime node`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validateName(name); err != nil {
			return err
		}
		if serverRuntime != "go" && serverRuntime != "node" {
			return fmt.Errorf("--runtime must be 'go' or 'node', got %q", serverRuntime)
		}

		data := scaffold.NewScaffoldData(name, "server", serverRuntime)
		result, err := scaffold.Generate("server", data, resolveOutputDir(name))
		if err != nil {
			return err
		}

		printResult("server", result)
		fmt.Println("\nNext steps:")
		if serverRuntime == "go" {
			fmt.Println("  1. Edit main.go to implement the server")
			fmt.Println("  2. Run 'go build' to verify compilation")
		} else {
			fmt.Println("  1. Edit index.mjs to implement the server")
			fmt.Println("  2. Run 'npm install' to install dependencies")
		}
		return nil
	},
}

func init() {
	newServerCmd.Flags().StringVar(&serverRuntime, "runtime", "go", "Server runtime: go or node")
}

// ─── new workflow ──────────────────────────────────────────────────

var newWorkflowCmd = &cobra.Command{
	Use:   "workflow <name>",
	Short: "Scaffold a new workflow",
	Long: `Scaffold a new workflow that chains agents and tools into steps.

Example:
  braid new workflow daily-digest`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validateName(name); err != nil {
			return err
		}

		data := scaffold.NewScaffoldData(name, "workflow", "")
		result, err := scaffold.Generate("workflow", data, resolveOutputDir(name))
		if err != nil {
			return err
		}

		printResult("workflow", result)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Edit workflow.yaml to define your steps")
		return nil
	},
}

// ─── Helpers ───────────────────────────────────────────────────────

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: must match pattern [a-z0-9][a-z0-9-]*", name)
	}
	return nil
}

func resolveOutputDir(name string) string {
	if newOutputDir != "" {
		return newOutputDir
	}
	return filepath.Join(".", name)
}

func printResult(typeName string, result *scaffold.Result) {
	fmt.Printf("Created %s at %s/\n", typeName, result.OutputDir)
	for _, f := range result.Files {
		fmt.Printf("  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
