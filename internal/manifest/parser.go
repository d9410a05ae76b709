package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse reads a manifest file and returns only the base fields.
// Useful for quick type detection without full parsing.
func Parse(path string) (*BaseManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var base BaseManifest
	if err := yaml.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	return &base, nil
}

// ParseFile reads a manifest file, detects its type, and returns the fully
// typed manifest struct. The returned any will be one of: *AgentManifest,
// *ToolManifest, *ServerManifest, or *WorkflowManifest.
func ParseFile(path string) (any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	typeName, err := detectType(data)
	if err != nil {
		return nil, fmt.Errorf("detecting manifest type in %s: %w", path, err)
	}

	switch typeName {
	case TypeAgent:
		return parseTyped[AgentManifest](data, path)
	case TypeTool:
		return parseTyped[ToolManifest](data, path)
	case TypeServer:
		return parseTyped[ServerManifest](data, path)
	case TypeWorkflow:
		return parseTyped[WorkflowManifest](data, path)
	default:
		return nil, fmt.Errorf("unknown manifest type %q in %s", typeName, path)
	}
}

// ParseAgent reads a manifest file and parses it as an AgentManifest.
func ParseAgent(path string) (*AgentManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseTyped[AgentManifest](data, path)
}

// ParseTool reads a manifest file and parses it as a ToolManifest.
func ParseTool(path string) (*ToolManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseTyped[ToolManifest](data, path)
}

// ParseServer reads a manifest file and parses it as a ServerManifest.
func ParseServer(path string) (*ServerManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseTyped[ServerManifest](data, path)
}

// ParseWorkflow reads a manifest file and parses it as a WorkflowManifest.
func ParseWorkflow(path string) (*WorkflowManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseTyped[WorkflowManifest](data, path)
}

// parseTyped unmarshals YAML data into a typed manifest struct.
func parseTyped[T any](data []byte, path string) (*T, error) {
	var m T
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// detectType unmarshals YAML data into a generic map and extracts the type field.
func detectType(data []byte) (string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("unmarshaling YAML: %w", err)
	}

	typeVal, ok := raw["type"]
	if !ok {
		return "", fmt.Errorf("manifest missing required 'type' field")
	}

	typeName, ok := typeVal.(string)
	if !ok {
		return "", fmt.Errorf("manifest 'type' field is not a string")
	}

	return typeName, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
