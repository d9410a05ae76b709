//go:build integration

package integration_test

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/braid-labs/braid/internal/compose"
	"github.com/braid-labs/braid/internal/deploy"
	"github.com/braid-labs/braid/internal/registry"
	"github.com/braid-labs/braid/internal/userdata"
	"go.uber.org/zap"
)

// TestFullFlowAddComposeDeploy tests the complete flow:
// init home -> add a server with deps -> generate compose -> plan waves.
func TestFullFlowAddComposeDeploy(t *testing.T) {
	env := setupTestEnv(t)
	setupRegistry(t, env.RegistryDir)

	sources := []registry.Source{
		{Name: "user", BasePath: env.RegistryDir},
	}

	// Step 1: Initialize the home directory.
	if err := userdata.InitGlobal(io.Discard); err != nil {
		t.Fatalf("InitGlobal: %v", err)
	}
	assertDirExists(t, filepath.Join(env.HomeDir, "env"))
	assertFileExists(t, filepath.Join(env.HomeDir, "env", "default.env"))

	// Step 2: Build the add plan for notion and its dependencies.
	plan, err := registry.BuildAddPlan("notion", sources, env.ServersDir, false)
	if err != nil {
		t.Fatalf("BuildAddPlan: %v", err)
	}
	if len(plan.AllServers) != 3 {
		t.Fatalf("expected 3 servers in plan, got %d", len(plan.AllServers))
	}

	// Dependencies must come before the server that needs them.
	order := make(map[string]int, len(plan.AllServers))
	for i, s := range plan.AllServers {
		order[s.Name] = i
	}
	if order["mongodb"] > order["notion"] {
		t.Error("mongodb should be added before notion")
	}
	if order["cache"] > order["notion"] {
		t.Error("cache should be added before notion")
	}

	// Step 3: Copy every server into the servers root.
	for _, resolved := range plan.AllServers {
		if err := registry.AddServer(resolved, env.ServersDir); err != nil {
			t.Fatalf("AddServer(%s): %v", resolved.Name, err)
		}
	}
	for _, name := range []string{"mongodb", "cache", "notion"} {
		assertDirExists(t, filepath.Join(env.ServersDir, name))
		assertFileExists(t, filepath.Join(env.ServersDir, name, "manifest.yaml"))
	}
	// Template payload files travel with the manifest.
	assertFileExists(t, filepath.Join(env.ServersDir, "notion", "package.json"))

	names, err := registry.ListAdded(env.ServersDir)
	if err != nil {
		t.Fatalf("ListAdded: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 added servers, got %d: %v", len(names), names)
	}

	// Step 4: Merge the added servers into one compose document.
	addedSource := []registry.Source{{Name: "added", BasePath: env.ServersDir}}
	probed := make(map[string]bool)
	var servers []*registry.ResolvedServer
	for _, name := range names {
		resolved, err := registry.ResolveServer(name, addedSource)
		if err != nil {
			t.Fatalf("ResolveServer(%s): %v", name, err)
		}
		servers = append(servers, resolved)
		probed[resolved.Manifest.Name] = compose.HasHealth(resolved.Manifest)
	}

	doc := compose.NewDocument()
	for _, s := range servers {
		svc, err := compose.Fragment(s.Manifest, s.SourceDir, func(dep string) bool { return probed[dep] })
		if err != nil {
			t.Fatalf("Fragment(%s): %v", s.Name, err)
		}
		if err := doc.AddService(s.Manifest.Name, svc); err != nil {
			t.Fatalf("AddService(%s): %v", s.Name, err)
		}
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	out, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	yaml := string(out)

	// Mongodb declares a probe, so notion waits on service_healthy; cache
	// has none, so notion only waits for it to start.
	if !strings.Contains(yaml, "service_healthy") {
		t.Errorf("compose document should gate on service_healthy:\n%s", yaml)
	}
	if !strings.Contains(yaml, "service_started") {
		t.Errorf("compose document should wait on probe-less cache with service_started:\n%s", yaml)
	}
	if !strings.Contains(yaml, "mongo:7") {
		t.Errorf("compose document should pull the mongodb image:\n%s", yaml)
	}

	// Step 5: Layer the services into startup waves.
	specs := make([]deploy.ServiceSpec, 0, len(servers))
	for _, s := range servers {
		specs = append(specs, deploy.SpecFromManifest(s.Manifest))
	}

	deployPlan, err := deploy.Optimize(specs, deploy.Budget{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(deployPlan.Waves) != 2 {
		t.Fatalf("expected 2 waves, got %d", len(deployPlan.Waves))
	}

	wave1 := waveNames(deployPlan.Waves[0])
	if !wave1["mongodb"] || !wave1["cache"] {
		t.Errorf("wave 1 should hold mongodb and cache, got %v", deployPlan.Waves[0])
	}
	wave2 := waveNames(deployPlan.Waves[1])
	if !wave2["notion"] {
		t.Errorf("wave 2 should hold notion, got %v", deployPlan.Waves[1])
	}
}

// TestRemoveServerAfterAdd verifies removal cleans the added copy without
// touching the registry.
func TestRemoveServerAfterAdd(t *testing.T) {
	env := setupTestEnv(t)
	setupRegistry(t, env.RegistryDir)

	sources := []registry.Source{{Name: "user", BasePath: env.RegistryDir}}

	resolved, err := registry.ResolveServer("mongodb", sources)
	if err != nil {
		t.Fatalf("ResolveServer: %v", err)
	}
	if err := registry.AddServer(resolved, env.ServersDir); err != nil {
		t.Fatalf("AddServer: %v", err)
	}
	assertDirExists(t, filepath.Join(env.ServersDir, "mongodb"))

	if err := registry.RemoveServer("mongodb", env.ServersDir); err != nil {
		t.Fatalf("RemoveServer: %v", err)
	}

	names, err := registry.ListAdded(env.ServersDir)
	if err != nil {
		t.Fatalf("ListAdded: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no added servers after removal, got %v", names)
	}

	// The registry template is untouched.
	assertFileExists(t, filepath.Join(env.RegistryDir, "mongodb", "manifest.yaml"))
}

// TestBudgetGateStopsOversizedStack verifies the resource budget aborts a
// plan whose aggregate claims exceed the cap.
func TestBudgetGateStopsOversizedStack(t *testing.T) {
	env := setupTestEnv(t)
	setupRegistry(t, env.RegistryDir)

	sources := []registry.Source{{Name: "user", BasePath: env.RegistryDir}}
	resolved, err := registry.ResolveServer("mongodb", sources)
	if err != nil {
		t.Fatalf("ResolveServer: %v", err)
	}

	specs := []deploy.ServiceSpec{deploy.SpecFromManifest(resolved.Manifest)}

	plan, err := deploy.Optimize(specs, deploy.Budget{MemoryMB: 256}, zap.NewNop())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !plan.OverBudget {
		t.Error("a 512m service should blow a 256 MB budget")
	}

	plan, err = deploy.Optimize(specs, deploy.Budget{MemoryMB: 1024}, zap.NewNop())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if plan.OverBudget {
		t.Error("a 512m service fits a 1024 MB budget")
	}
}

func waveNames(wave []deploy.ServiceSpec) map[string]bool {
	names := make(map[string]bool, len(wave))
	for _, s := range wave {
		names[s.Name] = true
	}
	return names
}
