// Package toolcall is the shared tool-calling framework: a Tool interface,
// a name-keyed registry, and a dispatcher that validates arguments against
// the tool's declared inputs before invoking it.
package toolcall

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/braid-labs/braid/internal/manifest"
)

// Tool is one callable capability exposed to agents.
type Tool interface {
	// Name is the unique tool identifier.
	Name() string
	// Description is a short human-readable summary.
	Description() string
	// Inputs declares the accepted arguments.
	Inputs() []manifest.InputField
	// Call invokes the tool with validated arguments.
	Call(ctx context.Context, args map[string]any) (*Result, error)
}

// Result is the outcome of a tool invocation.
type Result struct {
	Content string         // text payload for the model
	Data    map[string]any // structured payload, may be nil
}

// Registry holds tools keyed by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry returns an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. A duplicate name is an error.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// Get returns the named tool, or an error if unknown.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return t, nil
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
