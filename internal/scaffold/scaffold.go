package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/braid-labs/braid/internal/manifest"
)

//go:embed templates
var scaffoldFS embed.FS

// ScaffoldData holds all template variables available to scaffold templates.
type ScaffoldData struct {
	Name        string // e.g., "forecast-agent"
	Kind        string // "agent", "tool", "server", "workflow"
	Runtime     string // "go" or "node" (servers only)
	Description string // Human-readable description
	Version     string // Semver, e.g., "0.1.0"
	ModuleName  string // Derived: github.com/braid-labs/braid-server-<name>
	Port        int    // Default service port (servers only)
	Year        int    // Current year
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewScaffoldData creates a ScaffoldData with derived fields populated.
func NewScaffoldData(name, kind, runtime string) *ScaffoldData {
	d := &ScaffoldData{
		Name:    name,
		Kind:    kind,
		Runtime: runtime,
		Version: "0.1.0",
		Port:    8080,
		Year:    time.Now().Year(),
	}

	d.Description = fmt.Sprintf("Braid %s: %s", kind, name)
	d.ModuleName = fmt.Sprintf("github.com/braid-labs/braid-%s-%s", kind, name)

	return d
}

// templateSetName returns the embedded directory name for a given kind+runtime.
func templateSetName(kind, runtime string) string {
	switch kind {
	case manifest.TypeServer:
		return "server-" + runtime
	case manifest.TypeTool:
		return "tool-http"
	default:
		return kind
	}
}

// manifestFileName returns the expected manifest file name for a kind.
func manifestFileName(kind string) string {
	return kind + ".yaml"
}

// Generate creates a new project from scaffolding templates.
func Generate(kind string, data *ScaffoldData, outputDir string) (*Result, error) {
	setName := templateSetName(kind, data.Runtime)
	templatesDir := "templates/" + setName

	// Verify template set exists in embedded FS.
	entries, err := fs.ReadDir(scaffoldFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", setName, err)
	}

	// Create output directory.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Check for existing files to prevent accidental overwrites.
	existingEntries, err := os.ReadDir(outputDir)
	if err == nil && len(existingEntries) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{
		OutputDir: outputDir,
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplPath := templatesDir + "/" + entry.Name()
		tmplBytes, err := fs.ReadFile(scaffoldFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}

		// Strip .tmpl extension for the output filename.
		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		outPath := filepath.Join(outputDir, outName)

		tmpl, err := template.New(entry.Name()).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outName)
	}

	// Validate the generated manifest against the JSON Schema.
	manifestFile := filepath.Join(outputDir, manifestFileName(kind))
	if _, err := os.Stat(manifestFile); err == nil {
		valResult, valErr := manifest.ValidateFile(manifestFile)
		if valErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not validate manifest: %v", valErr))
		} else if !valResult.Valid {
			for _, issue := range valResult.Issues {
				msg := issue.Message
				if issue.Path != "" {
					msg = issue.Path + ": " + msg
				}
				result.Warnings = append(result.Warnings, msg)
			}
		}
	}

	return result, nil
}
