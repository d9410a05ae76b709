package compose

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddServiceDuplicate(t *testing.T) {
	doc := NewDocument()

	if err := doc.AddService("notion", &Service{Image: "a"}); err != nil {
		t.Fatalf("first AddService: %v", err)
	}
	if err := doc.AddService("notion", &Service{Image: "b"}); err == nil {
		t.Fatal("expected duplicate service error")
	}
}

func TestValidateUnknownDependency(t *testing.T) {
	doc := NewDocument()
	_ = doc.AddService("notion", &Service{
		Image:     "mcp/notion:1.2.0",
		DependsOn: map[string]DependsCondition{"mongodb": {Condition: ConditionHealthy}},
	})

	err := doc.Validate()
	if err == nil {
		t.Fatal("expected error for unknown depends_on target")
	}
	if !strings.Contains(err.Error(), "mongodb") {
		t.Errorf("error %q should name the missing service", err)
	}

	_ = doc.AddService("mongodb", &Service{Image: "mcp/mongodb:3.2.0"})
	if err := doc.Validate(); err != nil {
		t.Errorf("Validate after adding dependency: %v", err)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	build := func() *Document {
		doc := NewDocument()
		_ = doc.AddService("slack", &Service{Image: "mcp/slack:2.0.1"})
		_ = doc.AddService("notion", &Service{Image: "mcp/notion:1.2.0"})
		_ = doc.AddService("mongodb", &Service{Image: "mcp/mongodb:3.2.0"})
		return doc
	}

	first, err := build().Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := build().Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("identical documents produced different YAML")
	}

	// Sorted service order in output.
	out := string(first)
	if strings.Index(out, "mongodb:") > strings.Index(out, "notion:") {
		t.Error("services not sorted in output")
	}
}

func TestMarshalShape(t *testing.T) {
	doc := NewDocument()
	_ = doc.AddService("notion", &Service{
		Image: "mcp/notion:1.2.0",
		Ports: []string{"8090:8090"},
		Healthcheck: &Healthcheck{
			Test:     []string{"CMD-SHELL", "curl -fsS http://localhost:8090/healthz || exit 1"},
			Interval: "10s",
			Retries:  3,
		},
		DependsOn: map[string]DependsCondition{
			"mongodb": {Condition: ConditionHealthy},
		},
		Networks: []string{DefaultNetwork},
	})
	_ = doc.AddService("mongodb", &Service{Image: "mcp/mongodb:3.2.0", Networks: []string{DefaultNetwork}})

	out, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	for _, want := range []string{
		"services:",
		"image: mcp/notion:1.2.0",
		"condition: service_healthy",
		"healthcheck:",
		"networks:",
		"driver: bridge",
	} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
