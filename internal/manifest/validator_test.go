package manifest

import (
	"testing"
)

func TestValidateValidServer(t *testing.T) {
	data := []byte(`
name: notion
type: server
version: 1.2.0
description: Notion MCP server
image: mcp/notion:1.2.0
port: 8090
transport: http
health:
  endpoint: /healthz
  retries: 3
resources:
  cpu: 0.5
  memory: 256m
`)

	result, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid, got issues: %+v", result.Issues)
	}
}

func TestValidateValidAgent(t *testing.T) {
	data := []byte(`
name: forecast-agent
type: agent
version: 0.1.0
description: Forecast agent
model: gpt-4o
tokens:
  - name: OPENAI_API_KEY
    required: true
`)

	result, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid, got issues: %+v", result.Issues)
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	// Agent without the required model field.
	data := []byte(`
name: forecast-agent
type: agent
version: 0.1.0
description: Forecast agent
`)

	result, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}
}

func TestValidateBadName(t *testing.T) {
	data := []byte(`
name: Bad_Name
type: tool
version: 0.1.0
description: Tool with invalid name
runtime: http
`)

	result, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid result for bad name pattern")
	}

	found := false
	for _, issue := range result.Issues {
		if issue.Path == "/name" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an issue at /name, got %+v", result.Issues)
	}
}

func TestValidateBadTransport(t *testing.T) {
	data := []byte(`
name: notion
type: server
version: 1.0.0
description: Bad transport value
transport: carrier-pigeon
`)

	result, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid result for bad transport enum")
	}
}
