package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/braid-labs/braid/internal/branding"
	"github.com/braid-labs/braid/internal/deploy"
	"github.com/braid-labs/braid/internal/registry"
	"github.com/braid-labs/braid/internal/userdata"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	upRetries  int
	upInterval time.Duration
	upCPU      float64
	upMemoryMB int
	upVerbose  bool
)

func init() {
	upCmd.Flags().IntVar(&upRetries, "retries", deploy.DefaultRetries, "Health probe attempts per service")
	upCmd.Flags().DurationVar(&upInterval, "interval", deploy.DefaultProbeInterval, "Delay between health probes")
	upCmd.Flags().Float64Var(&upCPU, "max-cpu", 0, "Abort if the stack claims more CPUs than this (0 = unlimited)")
	upCmd.Flags().IntVar(&upMemoryMB, "max-memory-mb", 0, "Abort if the stack claims more memory than this (0 = unlimited)")
	upCmd.Flags().BoolVarP(&upVerbose, "verbose", "v", false, "Verbose startup logging")
	rootCmd.AddCommand(upCmd)
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the added servers in dependency order",
	Long: `Generate the compose document, layer the servers into startup waves,
and bring each wave up with docker compose. A wave starts only after the
previous wave's required services report healthy. Optional services that
never become healthy are logged and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := buildLogger(upVerbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		// Token env files feed compose variable substitution.
		if envPath, err := userdata.GetDefaultEnvPath(); err == nil {
			if err := userdata.ApplyEnvFile(envPath); err != nil {
				return err
			}
		}

		doc, err := buildComposeDocument()
		if err != nil {
			return err
		}
		out, err := doc.Marshal()
		if err != nil {
			return err
		}
		composePath, err := userdata.GetComposePath()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(composePath), 0755); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}
		if err := os.WriteFile(composePath, out, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", composePath, err)
		}

		specs, err := loadServiceSpecs()
		if err != nil {
			return err
		}

		budget := deploy.Budget{CPU: upCPU, MemoryMB: upMemoryMB}
		plan, err := deploy.Optimize(specs, budget, logger)
		if err != nil {
			return err
		}
		if plan.OverBudget {
			return fmt.Errorf("stack claims %.1f CPUs / %d MB, over the configured budget", plan.TotalCPU, plan.TotalMemMB)
		}

		runner := deploy.NewComposeRunner(composePath, logger)
		seq := deploy.NewSequencer(runner, nil, logger, upRetries, upInterval)

		results, err := seq.Run(cmd.Context(), plan.Waves)
		for i, r := range results {
			fmt.Printf("Wave %d: started %v", i+1, r.Services)
			if len(r.Degraded) > 0 {
				fmt.Printf(" (degraded: %v)", r.Degraded)
			}
			fmt.Println()
		}
		if err != nil {
			return err
		}

		fmt.Printf("\nAll services healthy. Stop the stack with 'docker compose -f %s down'.\n", composePath)
		return nil
	},
}

// loadServiceSpecs converts every added server manifest into a deploy spec.
func loadServiceSpecs() ([]deploy.ServiceSpec, error) {
	serversRoot, err := userdata.GetServersRoot()
	if err != nil {
		return nil, err
	}
	names, err := registry.ListAdded(serversRoot)
	if err != nil {
		return nil, err
	}

	addedSource := []registry.Source{{Name: "added", BasePath: serversRoot}}
	specs := make([]deploy.ServiceSpec, 0, len(names))
	for _, name := range names {
		resolved, err := registry.ResolveServer(name, addedSource)
		if err != nil {
			return nil, err
		}
		specs = append(specs, deploy.SpecFromManifest(resolved.Manifest))
	}
	return specs, nil
}

// buildLogger returns a console logger; verbose enables debug output.
func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger for %s: %w", branding.CLIName(), err)
	}
	return logger, nil
}
