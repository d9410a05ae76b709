// Package registry resolves MCP server templates across prioritized sources,
// builds their dependency graphs, and plans what `server add` will copy.
//
// The curated index of known servers is embedded at build time; user-local
// registries under ~/.braid/registry take priority over it.
package registry
