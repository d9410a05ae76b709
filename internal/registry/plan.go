package registry

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// BuildAddPlan builds an add plan for the named server. If noDeps is true,
// only the root server is included (no dependency resolution).
func BuildAddPlan(name string, sources []Source, addedRoot string, noDeps bool) (*AddPlan, error) {
	if noDeps {
		return buildNoDepsPlan(name, sources)
	}

	root, err := BuildGraph(name, sources, addedRoot)
	if err != nil {
		return nil, err
	}

	allServers := FlattenGraph(root)

	return &AddPlan{
		Root:       root,
		AllServers: allServers,
		Tokens:     checkTokens(allServers),
		SkipCount:  countAdded(root),
	}, nil
}

func buildNoDepsPlan(name string, sources []Source) (*AddPlan, error) {
	resolved, err := ResolveServer(name, sources)
	if err != nil {
		return nil, err
	}

	node := &GraphNode{Name: name, Resolved: resolved}
	allServers := []*ResolvedServer{resolved}

	return &AddPlan{
		Root:       node,
		AllServers: allServers,
		Tokens:     checkTokens(allServers),
	}, nil
}

func countAdded(node *GraphNode) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.Added {
		count = 1
	}
	for _, child := range node.Children {
		count += countAdded(child)
	}
	return count
}

// checkTokens checks the declared tokens of all servers against the
// environment. Each token name is reported once.
func checkTokens(servers []*ResolvedServer) []TokenStatus {
	seen := make(map[string]bool)
	var result []TokenStatus

	for _, s := range servers {
		for _, tok := range s.Manifest.Tokens {
			if seen[tok.Name] {
				continue
			}
			seen[tok.Name] = true

			_, set := os.LookupEnv(tok.Name)
			result = append(result, TokenStatus{
				Name:     tok.Name,
				Required: tok.Required,
				Set:      set,
			})
		}
	}

	return result
}

// PrintTree prints the dependency graph with box-drawing characters.
func PrintTree(w io.Writer, node *GraphNode, prefix string, isLast bool) {
	if node == nil {
		return
	}

	connector := "├── "
	if isLast {
		connector = "└── "
	}

	label := node.Name
	if node.Deduped {
		label += " (deduped)"
	} else if node.Added {
		label += " (already added)"
	}

	// For the root node, don't print a connector.
	if prefix == "" {
		fmt.Fprintf(w, "  %s\n", label)
	} else {
		fmt.Fprintf(w, "  %s%s%s\n", prefix, connector, label)
	}

	childPrefix := prefix
	if prefix != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	for i, child := range node.Children {
		PrintTree(w, child, childPrefix, i == len(node.Children)-1)
	}
}

// PrintPlan prints the full add plan summary.
func PrintPlan(w io.Writer, plan *AddPlan) {
	fmt.Fprintln(w, "Resolving dependencies...")
	fmt.Fprintln(w)

	PrintTree(w, plan.Root, "", true)
	fmt.Fprintln(w)

	count := len(plan.AllServers)
	noun := "server"
	if count != 1 {
		noun = "servers"
	}
	fmt.Fprintf(w, "  Add: %d %s\n", count, noun)

	if len(plan.Tokens) > 0 {
		var parts []string
		var missing []string
		for _, tok := range plan.Tokens {
			if tok.Set {
				parts = append(parts, fmt.Sprintf("%s ✓", tok.Name))
			} else {
				parts = append(parts, fmt.Sprintf("%s ✗", tok.Name))
				if tok.Required {
					missing = append(missing, tok.Name)
				}
			}
		}
		fmt.Fprintf(w, "  Tokens: %s\n", strings.Join(parts, ", "))
		for _, m := range missing {
			fmt.Fprintf(w, "\n  Warning: required token %s is not set\n", m)
		}
	}

	if plan.SkipCount > 0 {
		fmt.Fprintf(w, "  (%d servers already added, will be skipped)\n", plan.SkipCount)
	}

	fmt.Fprintln(w)
}
