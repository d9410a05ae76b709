package registry

import (
	"io"

	"github.com/braid-labs/braid/internal/manifest"
)

// Source represents a location to search for server templates
// (e.g., the bundled index, a user-local registry).
type Source struct {
	Name     string // e.g., "builtin", "acme-corp"
	BasePath string // absolute path to the source root
}

// ResolvedServer represents a server template found in a source.
type ResolvedServer struct {
	Name         string // e.g., "notion"
	ManifestPath string // absolute path to the manifest file
	SourceDir    string // absolute path to the template directory
	SourceName   string // name of the source it was found in
	Manifest     *manifest.ServerManifest
}

// GraphNode represents a node in the server dependency graph.
type GraphNode struct {
	Name     string
	Resolved *ResolvedServer
	Children []*GraphNode
	Deduped  bool // true if this server was already seen earlier in the graph
	Added    bool // true if already present under ~/.braid/servers/
}

// TokenStatus reports whether a declared token is set in the environment.
type TokenStatus struct {
	Name     string
	Required bool
	Set      bool
}

// AddPlan summarizes what `server add` will copy into the project.
type AddPlan struct {
	Root       *GraphNode
	AllServers []*ResolvedServer // flattened, deduplicated, dependencies first
	Tokens     []TokenStatus     // token check results across the plan
	SkipCount  int               // already-added count
}

// ProgressFunc is called to report progress while servers are copied.
type ProgressFunc func(w io.Writer, name string, err error)
