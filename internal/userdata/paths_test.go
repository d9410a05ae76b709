package userdata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRoot_EnvOverride(t *testing.T) {
	t.Setenv("BRAID_HOME", "/tmp/test-braid")
	root, err := Root()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != "/tmp/test-braid" {
		t.Errorf("expected /tmp/test-braid, got %s", root)
	}
}

func TestRoot_Default(t *testing.T) {
	t.Setenv("BRAID_HOME", "")
	root, err := Root()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".braid")
	if root != expected {
		t.Errorf("expected %s, got %s", expected, root)
	}
}

func TestGetServersRoot_EnvOverride(t *testing.T) {
	t.Setenv("BRAID_SERVERS", "/tmp/srv")
	dir, err := GetServersRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/tmp/srv" {
		t.Errorf("expected /tmp/srv, got %s", dir)
	}
}

func TestGetServersRoot_Default(t *testing.T) {
	t.Setenv("BRAID_HOME", "/tmp/braid")
	t.Setenv("BRAID_SERVERS", "")
	dir, err := GetServersRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/tmp/braid/servers" {
		t.Errorf("expected /tmp/braid/servers, got %s", dir)
	}
}

func TestGetEnvAndStateDirs(t *testing.T) {
	t.Setenv("BRAID_HOME", "/tmp/braid")

	envDir, err := GetEnvDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if envDir != "/tmp/braid/env" {
		t.Errorf("env dir = %s", envDir)
	}

	stateDir, err := GetStateDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stateDir != "/tmp/braid/state" {
		t.Errorf("state dir = %s", stateDir)
	}

	composePath, err := GetComposePath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if composePath != "/tmp/braid/state/docker-compose.yaml" {
		t.Errorf("compose path = %s", composePath)
	}
}

func TestGetVendorEnvPath(t *testing.T) {
	t.Setenv("BRAID_HOME", "/tmp/braid")
	p, err := GetVendorEnvPath("xero")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != "/tmp/braid/env/xero.env" {
		t.Errorf("expected /tmp/braid/env/xero.env, got %s", p)
	}
}
