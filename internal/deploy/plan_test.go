package deploy

import (
	"strings"
	"testing"

	"github.com/braid-labs/braid/internal/manifest"
)

func TestBuildWavesLayering(t *testing.T) {
	specs := []ServiceSpec{
		{Name: "agent-gw", DependsOn: []string{"notion", "slack"}},
		{Name: "notion", DependsOn: []string{"mongodb"}},
		{Name: "slack", DependsOn: []string{"mongodb"}},
		{Name: "mongodb"},
	}

	waves, err := BuildWaves(specs)
	if err != nil {
		t.Fatalf("BuildWaves: %v", err)
	}

	if len(waves) != 3 {
		t.Fatalf("got %d waves, want 3", len(waves))
	}
	if len(waves[0]) != 1 || waves[0][0].Name != "mongodb" {
		t.Errorf("wave 0 = %v, want [mongodb]", waveNames(waves[0]))
	}
	// Wave 1 sorted by name.
	if len(waves[1]) != 2 || waves[1][0].Name != "notion" || waves[1][1].Name != "slack" {
		t.Errorf("wave 1 = %v, want [notion slack]", waveNames(waves[1]))
	}
	if len(waves[2]) != 1 || waves[2][0].Name != "agent-gw" {
		t.Errorf("wave 2 = %v, want [agent-gw]", waveNames(waves[2]))
	}
}

func TestBuildWavesIndependentServices(t *testing.T) {
	specs := []ServiceSpec{
		{Name: "b"},
		{Name: "a"},
		{Name: "c"},
	}

	waves, err := BuildWaves(specs)
	if err != nil {
		t.Fatalf("BuildWaves: %v", err)
	}
	if len(waves) != 1 {
		t.Fatalf("got %d waves, want 1", len(waves))
	}
	got := waveNames(waves[0])
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("wave not sorted: %v", got)
	}
}

func TestBuildWavesCycle(t *testing.T) {
	specs := []ServiceSpec{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
		{Name: "c"},
	}

	_, err := BuildWaves(specs)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !strings.Contains(err.Error(), "a") || !strings.Contains(err.Error(), "b") {
		t.Errorf("error %q should name the stuck services", err)
	}
}

func TestBuildWavesUnknownDependency(t *testing.T) {
	specs := []ServiceSpec{
		{Name: "a", DependsOn: []string{"ghost"}},
	}

	if _, err := BuildWaves(specs); err == nil {
		t.Fatal("expected error for unknown dependency")
	}
}

func TestBuildWavesDuplicate(t *testing.T) {
	specs := []ServiceSpec{{Name: "a"}, {Name: "a"}}

	if _, err := BuildWaves(specs); err == nil {
		t.Fatal("expected error for duplicate service")
	}
}

func TestSpecFromManifest(t *testing.T) {
	m := &manifest.ServerManifest{
		BaseManifest: manifest.BaseManifest{Name: "notion"},
		Port:         8090,
		Transport:    manifest.TransportHTTP,
		Health:       &manifest.HealthSpec{Endpoint: "/healthz", StartPeriod: "4s"},
		DependsOn:    []string{"mongodb"},
		Optional:     true,
		Resources:    &manifest.Resources{CPU: 0.5, Memory: "256m"},
	}

	spec := SpecFromManifest(m)
	if spec.HealthURL != "http://localhost:8090/healthz" {
		t.Errorf("HealthURL = %q", spec.HealthURL)
	}
	if spec.StartWait != "4s" {
		t.Errorf("StartWait = %q", spec.StartWait)
	}
	if !spec.Optional {
		t.Error("Optional not carried over")
	}
	if spec.MemoryMB != 256 || spec.CPU != 0.5 {
		t.Errorf("resources = %+v", spec)
	}
}

func TestSpecFromManifestHealthWithoutPort(t *testing.T) {
	m := &manifest.ServerManifest{
		BaseManifest: manifest.BaseManifest{Name: "stdio-ish"},
		Transport:    manifest.TransportStdio,
		Health:       &manifest.HealthSpec{Endpoint: "/healthz"},
	}

	spec := SpecFromManifest(m)
	if spec.HealthURL != "" {
		t.Errorf("HealthURL = %q, want empty when no port is declared", spec.HealthURL)
	}
}

func TestParseMemoryMB(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"256m", 256},
		{"512mb", 512},
		{"2g", 2048},
		{"2gb", 2048},
		{"1G", 1024},
		{"1GB", 1024},
		{"524288k", 512},
		{"268435456", 256},  // bare integer is bytes
		{"268435456b", 256}, // explicit byte suffix
		{"", 0},
		{"banana", 0},
		{"12x", 0},
	}
	for _, tt := range tests {
		if got := parseMemoryMB(tt.in); got != tt.want {
			t.Errorf("parseMemoryMB(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func waveNames(wave []ServiceSpec) []string {
	var out []string
	for _, s := range wave {
		out = append(out, s.Name)
	}
	return out
}
