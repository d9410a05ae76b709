//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir     string // BRAID_HOME — contains servers/, registry/, env/, state/
	RegistryDir string // BRAID_REGISTRY — where server templates live
	ServersDir  string // BRAID_SERVERS — where added servers get copied
	ProjectDir  string // A mock project directory
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so all operations are sandboxed. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	env.RegistryDir = filepath.Join(env.HomeDir, "registry")
	env.ServersDir = filepath.Join(env.HomeDir, "servers")

	t.Setenv("BRAID_HOME", env.HomeDir)
	t.Setenv("BRAID_REGISTRY", env.RegistryDir)
	t.Setenv("BRAID_SERVERS", env.ServersDir)

	for _, sub := range []string{"servers", "registry", "env", "state"} {
		if err := os.MkdirAll(filepath.Join(env.HomeDir, sub), 0755); err != nil {
			t.Fatalf("creating %s: %v", sub, err)
		}
	}

	return env
}

// setupRegistry populates the test registry with a small server graph:
//
//	notion -> mongodb (image, healthcheck)
//	       -> cache   (image, optional, no healthcheck)
func setupRegistry(t *testing.T, registryDir string) {
	t.Helper()

	writeServerManifest(t, registryDir, "mongodb", `name: mongodb
type: server
version: "3.1.0"
description: MongoDB document store
image: mongo:7
port: 27017
transport: http
health:
  endpoint: /
  interval: 5s
  retries: 5
resources:
  cpu: 1.0
  memory: 512m
`)

	writeServerManifest(t, registryDir, "cache", `name: cache
type: server
version: "1.0.0"
description: Redis cache
image: redis:7
port: 6379
transport: http
optional: true
`)

	writeServerManifest(t, registryDir, "notion", `name: notion
type: server
version: "1.2.0"
description: Notion MCP server
runtime: node
port: 8081
transport: http
depends_on:
  - mongodb
  - cache
health:
  endpoint: /healthz
tokens:
  - name: NOTION_TOKEN
    required: true
    description: Notion integration token
`)
	// A node build marker so runtime detection has something to find.
	writeFile(t, filepath.Join(registryDir, "notion", "package.json"), `{"name": "notion-server", "version": "1.2.0"}`)
	writeFile(t, filepath.Join(registryDir, "notion", "index.mjs"), "console.log('ok');\n")
}

// writeServerManifest creates registryDir/<name>/manifest.yaml.
func writeServerManifest(t *testing.T, registryDir, name, content string) {
	t.Helper()
	dir := filepath.Join(registryDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "manifest.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
