package detect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDirDetection(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"go module", []string{"go.mod", "main.go"}, RuntimeGo},
		{"node package", []string{"package.json"}, RuntimeNode},
		{"python pyproject", []string{"pyproject.toml"}, RuntimePython},
		{"python requirements", []string{"requirements.txt"}, RuntimePython},
		{"dockerfile wins over go", []string{"Dockerfile", "go.mod"}, RuntimeDocker},
		{"dockerfile wins over node", []string{"Dockerfile", "package.json"}, RuntimeDocker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files...)
			d, err := Dir(dir)
			if err != nil {
				t.Fatalf("Dir: %v", err)
			}
			if d.Runtime != tt.want {
				t.Errorf("Runtime = %q, want %q", d.Runtime, tt.want)
			}
		})
	}
}

func TestDirUnknownRuntime(t *testing.T) {
	dir := writeFiles(t, "README.md")

	_, err := Dir(dir)
	if err == nil {
		t.Fatal("expected error for unknown layout")
	}
	// The error must list the probed markers so users know what to add.
	for _, marker := range []string{"Dockerfile", "go.mod", "package.json"} {
		if !strings.Contains(err.Error(), marker) {
			t.Errorf("error %q should list marker %s", err, marker)
		}
	}
}

func TestDirMissing(t *testing.T) {
	if _, err := Dir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
