// Package detect infers the runtime of an MCP server template directory
// from its build markers.
package detect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Runtime identifiers, in detection priority order.
const (
	RuntimeDocker  = "docker"
	RuntimeGo      = "go"
	RuntimeNode    = "node"
	RuntimePython  = "python"
	RuntimeUnknown = ""
)

// Detection describes the inferred runtime of a server directory.
type Detection struct {
	Runtime       string
	Marker        string // the file that triggered detection
	DefaultHealth string // default health endpoint for generated services
}

// markers maps build files to runtimes. Dockerfile wins over language
// markers; among language markers the first match in probe order wins.
var markers = []struct {
	file    string
	runtime string
}{
	{"Dockerfile", RuntimeDocker},
	{"go.mod", RuntimeGo},
	{"package.json", RuntimeNode},
	{"pyproject.toml", RuntimePython},
	{"requirements.txt", RuntimePython},
}

// Dir probes a server directory and returns the detected runtime.
// An unknown layout is an error listing every marker probed.
func Dir(dir string) (*Detection, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(dir, m.file)); err == nil {
			return &Detection{
				Runtime:       m.runtime,
				Marker:        m.file,
				DefaultHealth: "/healthz",
			}, nil
		}
	}

	probed := make([]string, len(markers))
	for i, m := range markers {
		probed[i] = m.file
	}
	return nil, fmt.Errorf("cannot detect runtime in %s: none of %s found",
		dir, strings.Join(probed, ", "))
}
