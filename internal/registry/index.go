package registry

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

//go:embed index.yaml
var rawIndex []byte

// IndexEntry describes one known MCP server in the curated index.
type IndexEntry struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Transport   string         `yaml:"transport"`
	Port        int            `yaml:"port,omitempty"`
	Health      string         `yaml:"health,omitempty"`
	Versions    []IndexVersion `yaml:"versions"`
}

// IndexVersion is one published version of an indexed server.
type IndexVersion struct {
	Version string `yaml:"version"`
	Image   string `yaml:"image"`
}

// Index is the curated catalog of known MCP servers.
type Index struct {
	Servers []IndexEntry `yaml:"servers"`
}

var (
	indexOnce sync.Once
	builtin   *Index
	indexErr  error
)

// BuiltinIndex parses the embedded index once and returns it.
func BuiltinIndex() (*Index, error) {
	indexOnce.Do(func() {
		var idx Index
		if err := yaml.Unmarshal(rawIndex, &idx); err != nil {
			indexErr = fmt.Errorf("parsing embedded server index: %w", err)
			return
		}
		builtin = &idx
	})
	return builtin, indexErr
}

// Find returns the index entry for a server name, or nil if unknown.
func (idx *Index) Find(name string) *IndexEntry {
	for i := range idx.Servers {
		if idx.Servers[i].Name == name {
			return &idx.Servers[i]
		}
	}
	return nil
}

// Search returns entries whose name or description contains the query
// (case-insensitive substring), sorted by name. An empty query returns all
// entries.
func (idx *Index) Search(query string) []IndexEntry {
	q := strings.ToLower(query)
	var out []IndexEntry
	for _, e := range idx.Servers {
		if q == "" || strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Description), q) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the highest version of the named server satisfying the
// semver constraint (e.g., "^1.0", ">=2.1.0"). An empty constraint selects
// the highest version available.
func (idx *Index) Lookup(name, constraint string) (*IndexEntry, *IndexVersion, error) {
	entry := idx.Find(name)
	if entry == nil {
		return nil, nil, fmt.Errorf("server %q not in index", name)
	}

	var c *semver.Constraints
	if constraint != "" {
		var err error
		c, err = semver.NewConstraint(constraint)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing version constraint %q: %w", constraint, err)
		}
	}

	var best *IndexVersion
	var bestVer *semver.Version
	for i := range entry.Versions {
		v, err := semver.NewVersion(entry.Versions[i].Version)
		if err != nil {
			return nil, nil, fmt.Errorf("index entry %s has bad version %q: %w", name, entry.Versions[i].Version, err)
		}
		if c != nil && !c.Check(v) {
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best = &entry.Versions[i]
			bestVer = v
		}
	}

	if best == nil {
		return nil, nil, fmt.Errorf("no version of %s satisfies %q", name, constraint)
	}
	return entry, best, nil
}
