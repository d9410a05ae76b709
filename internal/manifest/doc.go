// Package manifest defines the YAML manifest formats for Braid components
// (agents, tools, MCP servers, workflows) and provides type-discriminated
// parsing plus JSON Schema validation.
package manifest
