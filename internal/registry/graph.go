package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BuildGraph resolves a server and recursively builds its dependency graph
// from depends_on declarations. Nodes are marked Deduped if they appear more
// than once, and Added if they already exist under addedRoot. A dependency
// cycle is a hard error naming the cycle members.
func BuildGraph(name string, sources []Source, addedRoot string) (*GraphNode, error) {
	seen := make(map[string]bool)
	return buildNode(name, sources, addedRoot, seen, nil)
}

func buildNode(name string, sources []Source, addedRoot string, seen map[string]bool, stack []string) (*GraphNode, error) {
	// Cycle check: the name is already on the current resolution path.
	for i, s := range stack {
		if s == name {
			cycle := append(stack[i:], name)
			return nil, fmt.Errorf("dependency cycle: %s", strings.Join(cycle, " -> "))
		}
	}

	node := &GraphNode{Name: name}

	// Check if already seen elsewhere in the graph (dedup).
	if seen[name] {
		node.Deduped = true
		return node, nil
	}
	seen[name] = true

	// Check if already added to the project.
	if addedRoot != "" {
		addedDir := filepath.Join(addedRoot, name)
		if _, err := os.Stat(addedDir); err == nil {
			node.Added = true
		}
	}

	resolved, err := ResolveServer(name, sources)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", name, err)
	}
	node.Resolved = resolved

	stack = append(stack, name)
	for _, dep := range resolved.Manifest.DependsOn {
		child, err := buildNode(dep, sources, addedRoot, seen, stack)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// FlattenGraph returns all resolved servers in topological order
// (dependencies first), with duplicates and already-added servers removed.
func FlattenGraph(root *GraphNode) []*ResolvedServer {
	seen := make(map[string]bool)
	var result []*ResolvedServer
	flattenRecursive(root, seen, &result)
	return result
}

func flattenRecursive(node *GraphNode, seen map[string]bool, result *[]*ResolvedServer) {
	if node == nil || node.Deduped || node.Added || seen[node.Name] {
		return
	}

	// Process children first (dependencies before dependents).
	for _, child := range node.Children {
		flattenRecursive(child, seen, result)
	}

	if !seen[node.Name] && node.Resolved != nil {
		seen[node.Name] = true
		*result = append(*result, node.Resolved)
	}
}
