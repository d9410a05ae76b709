package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddServerCopiesTemplate(t *testing.T) {
	sources, root := testSources(t)
	writeServer(t, root, "notion")

	// Extra payload file plus an excluded directory.
	if err := os.WriteFile(filepath.Join(root, "notion", "README.md"), []byte("# notion"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "notion", "node_modules", "x"), 0755); err != nil {
		t.Fatal(err)
	}

	resolved, err := ResolveServer("notion", sources)
	if err != nil {
		t.Fatalf("ResolveServer: %v", err)
	}

	addedRoot := t.TempDir()
	if err := AddServer(resolved, addedRoot); err != nil {
		t.Fatalf("AddServer: %v", err)
	}

	if _, err := os.Stat(filepath.Join(addedRoot, "notion", "manifest.yaml")); err != nil {
		t.Error("manifest.yaml not copied")
	}
	if _, err := os.Stat(filepath.Join(addedRoot, "notion", "README.md")); err != nil {
		t.Error("README.md not copied")
	}
	if _, err := os.Stat(filepath.Join(addedRoot, "notion", "node_modules")); !os.IsNotExist(err) {
		t.Error("node_modules should be excluded from the copy")
	}
}

func TestAddServerReplacesExisting(t *testing.T) {
	sources, root := testSources(t)
	writeServer(t, root, "notion")

	resolved, err := ResolveServer("notion", sources)
	if err != nil {
		t.Fatalf("ResolveServer: %v", err)
	}

	addedRoot := t.TempDir()
	stale := filepath.Join(addedRoot, "notion", "stale.txt")
	if err := os.MkdirAll(filepath.Dir(stale), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := AddServer(resolved, addedRoot); err != nil {
		t.Fatalf("AddServer: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should be removed by a clean re-add")
	}
}

func TestRemoveServer(t *testing.T) {
	addedRoot := t.TempDir()
	dir := filepath.Join(addedRoot, "notion")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	if err := RemoveServer("notion", addedRoot); err != nil {
		t.Fatalf("RemoveServer: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("server directory should be removed")
	}

	if err := RemoveServer("notion", addedRoot); err == nil {
		t.Error("removing a non-added server should fail")
	}
}

func TestListAdded(t *testing.T) {
	addedRoot := t.TempDir()

	names, err := ListAdded(addedRoot)
	if err != nil {
		t.Fatalf("ListAdded: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("empty root should list nothing, got %v", names)
	}

	for _, n := range []string{"notion", "slack"} {
		if err := os.MkdirAll(filepath.Join(addedRoot, n), 0755); err != nil {
			t.Fatal(err)
		}
	}

	names, err = ListAdded(addedRoot)
	if err != nil {
		t.Fatalf("ListAdded: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("got %v, want two servers", names)
	}
}
