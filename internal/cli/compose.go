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

var composeOutput string

func init() {
	composeCmd.Flags().StringVarP(&composeOutput, "output", "o", "", "Output path (default: ~/.braid/state/docker-compose.yaml, '-' for stdout)")
	rootCmd.AddCommand(composeCmd)
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Generate a docker compose document for the added servers",
	Long: `Merge every added server into one docker compose document. Servers
without an image get a build block (and a generated Dockerfile when the
runtime has no Dockerfile of its own). Dependencies wait on
service_healthy when the dependency declares a health probe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := buildComposeDocument()
		if err != nil {
			return err
		}

		out, err := doc.Marshal()
		if err != nil {
			return err
		}

		if composeOutput == "-" {
			fmt.Print(string(out))
			return nil
		}

		path := composeOutput
		if path == "" {
			path, err = userdata.GetComposePath()
			if err != nil {
				return err
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}
		if err := os.WriteFile(path, out, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Printf("Wrote %s (%d services)\n", path, len(doc.Services))
		fmt.Printf("Start the stack with '%s up'.\n", branding.CLIName())
		return nil
	},
}

// buildComposeDocument merges all added servers into one compose document,
// generating Dockerfiles for buildable servers that lack one.
func buildComposeDocument() (*compose.Document, error) {
	serversRoot, err := userdata.GetServersRoot()
	if err != nil {
		return nil, err
	}

	names, err := registry.ListAdded(serversRoot)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no servers added; run '%s server add <name>' first", branding.CLIName())
	}

	addedSource := []registry.Source{{Name: "added", BasePath: serversRoot}}
	servers := make([]*registry.ResolvedServer, 0, len(names))
	probed := make(map[string]bool, len(names))
	for _, name := range names {
		resolved, err := registry.ResolveServer(name, addedSource)
		if err != nil {
			return nil, err
		}
		servers = append(servers, resolved)
		probed[resolved.Manifest.Name] = compose.HasHealth(resolved.Manifest)
	}

	doc := compose.NewDocument()
	for _, s := range servers {
		if s.Manifest.Image == "" {
			if err := ensureDockerfile(s); err != nil {
				return nil, err
			}
		}

		svc, err := compose.Fragment(s.Manifest, s.SourceDir, func(dep string) bool { return probed[dep] })
		if err != nil {
			return nil, err
		}
		if err := doc.AddService(s.Manifest.Name, svc); err != nil {
			return nil, err
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ensureDockerfile generates a Dockerfile for a buildable server whose
// directory doesn't ship one.
func ensureDockerfile(s *registry.ResolvedServer) error {
	detection, err := detect.Dir(s.SourceDir)
	if err != nil {
		return fmt.Errorf("server %s: %w", s.Name, err)
	}
	if detection.Runtime == detect.RuntimeDocker {
		return nil
	}

	data := compose.DockerfileData{Port: s.Manifest.Port}
	if compose.HasHealth(s.Manifest) {
		data.HealthEndpoint = s.Manifest.Health.Endpoint
	}

	dockerfile, err := compose.Dockerfile(detection.Runtime, data)
	if err != nil {
		return fmt.Errorf("server %s: %w", s.Name, err)
	}

	path := filepath.Join(s.SourceDir, "Dockerfile")
	if err := os.WriteFile(path, dockerfile, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
