package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/braid-labs/braid/internal/manifest"
)

// manifestNames is the fallback order for finding server manifest files.
var manifestNames = []string{"manifest.yaml", "server.yaml"}

// ResolveServer searches for a server template across sources in priority
// order. Sources are searched in slice order (first source = highest
// priority) and the first match wins.
func ResolveServer(name string, sources []Source) (*ResolvedServer, error) {
	for _, src := range sources {
		dir := filepath.Join(src.BasePath, name)
		manifestPath, err := findManifest(dir)
		if err != nil {
			continue // not found in this source
		}

		m, err := manifest.ParseServer(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("parsing server manifest %s: %w", manifestPath, err)
		}

		return &ResolvedServer{
			Name:         name,
			ManifestPath: manifestPath,
			SourceDir:    dir,
			SourceName:   src.Name,
			Manifest:     m,
		}, nil
	}

	return nil, fmt.Errorf("server %q not found in any source", name)
}

// findManifest searches for a manifest file in the given directory.
// Fallback order: manifest.yaml > server.yaml.
func findManifest(dir string) (string, error) {
	for _, name := range manifestNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no manifest found in %s", dir)
}
