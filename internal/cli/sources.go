package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/braid-labs/braid/internal/registry"
	"github.com/braid-labs/braid/internal/userdata"
	"go.yaml.in/yaml/v3"
)

// buildSources returns the ordered registry sources: a project-local
// servers/ directory when present, then the user registry under ~/.braid.
// First match wins during resolution.
func buildSources() ([]registry.Source, error) {
	var sources []registry.Source

	if info, err := os.Stat("servers"); err == nil && info.IsDir() {
		sources = append(sources, registry.Source{Name: "project", BasePath: "servers"})
	}

	userRegistry, err := userdata.GetRegistryRoot()
	if err != nil {
		return nil, err
	}
	sources = append(sources, registry.Source{Name: "user", BasePath: userRegistry})

	return sources, nil
}

// indexManifest is the manifest shape written when an index entry is
// materialized into the user registry.
type indexManifest struct {
	Name        string       `yaml:"name"`
	Type        string       `yaml:"type"`
	Version     string       `yaml:"version"`
	Description string       `yaml:"description"`
	Image       string       `yaml:"image"`
	Transport   string       `yaml:"transport"`
	Port        int          `yaml:"port,omitempty"`
	Health      *indexHealth `yaml:"health,omitempty"`
}

type indexHealth struct {
	Endpoint string `yaml:"endpoint"`
}

// materializeFromIndex looks a server up in the curated index and writes
// its manifest into the user registry so resolution can find it. The
// constraint pins a version; empty selects the latest.
func materializeFromIndex(name, constraint string) error {
	idx, err := registry.BuiltinIndex()
	if err != nil {
		return fmt.Errorf("loading server index: %w", err)
	}

	entry, version, err := idx.Lookup(name, constraint)
	if err != nil {
		return err
	}

	m := indexManifest{
		Name:        entry.Name,
		Type:        "server",
		Version:     version.Version,
		Description: entry.Description,
		Image:       version.Image,
		Transport:   entry.Transport,
		Port:        entry.Port,
	}
	if entry.Health != "" {
		m.Health = &indexHealth{Endpoint: entry.Health}
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest for %s: %w", name, err)
	}

	userRegistry, err := userdata.GetRegistryRoot()
	if err != nil {
		return err
	}
	dir := filepath.Join(userRegistry, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating registry entry %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing manifest for %s: %w", name, err)
	}
	return nil
}
