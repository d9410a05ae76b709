package toolcall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/braid-labs/braid/internal/manifest"
)

// RESTTool is the generic HTTP connector built from a tool manifest. It
// covers the long tail of SaaS APIs: fill {placeholders} in the endpoint
// from arguments, attach a bearer token from the environment, and reshape
// the JSON response.
type RESTTool struct {
	manifest *manifest.ToolManifest
	client   *http.Client
}

// NewRESTTool builds a RESTTool from a manifest. Only http-runtime
// manifests are accepted. A nil client gets http.DefaultClient.
func NewRESTTool(m *manifest.ToolManifest, client *http.Client) (*RESTTool, error) {
	if m.Runtime != "http" {
		return nil, fmt.Errorf("tool %s: runtime %q is not http", m.Name, m.Runtime)
	}
	if m.Endpoint == "" {
		return nil, fmt.Errorf("tool %s: endpoint is required", m.Name)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTTool{manifest: m, client: client}, nil
}

// Name implements Tool.
func (t *RESTTool) Name() string { return t.manifest.Name }

// Description implements Tool.
func (t *RESTTool) Description() string { return t.manifest.Description }

// Inputs implements Tool.
func (t *RESTTool) Inputs() []manifest.InputField { return t.manifest.Inputs }

// Call implements Tool: it expands the endpoint template, issues the
// request, and returns the reshaped JSON body.
func (t *RESTTool) Call(ctx context.Context, args map[string]any) (*Result, error) {
	endpoint, used, err := expandEndpoint(t.manifest.Endpoint, args)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", t.manifest.Name, err)
	}

	method := t.manifest.Method
	if method == "" {
		method = http.MethodGet
	}

	// Arguments not consumed by the path become query parameters (GET)
	// or the JSON body (other methods).
	var body io.Reader
	query := url.Values{}
	extra := make(map[string]any)
	for name, val := range args {
		if used[name] {
			continue
		}
		if method == http.MethodGet {
			query.Set(name, fmt.Sprintf("%v", val))
		} else {
			extra[name] = val
		}
	}

	if method != http.MethodGet && len(extra) > 0 {
		payload, err := json.Marshal(extra)
		if err != nil {
			return nil, fmt.Errorf("tool %s: encoding body: %w", t.manifest.Name, err)
		}
		body = strings.NewReader(string(payload))
	}

	if enc := query.Encode(); enc != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + enc
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("tool %s: building request: %w", t.manifest.Name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.manifest.TokenEnv != "" {
		if token := os.Getenv(t.manifest.TokenEnv); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", t.manifest.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tool %s: reading response: %w", t.manifest.Name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tool %s: %s returned %d: %s", t.manifest.Name, endpoint, resp.StatusCode, truncate(raw, 200))
	}

	result := &Result{Content: string(raw)}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err == nil {
		result.Data = data
	}
	return result, nil
}

// expandEndpoint fills {placeholder} segments from args and reports which
// argument names were consumed. A placeholder without a matching argument
// is an error.
func expandEndpoint(endpoint string, args map[string]any) (string, map[string]bool, error) {
	used := make(map[string]bool)
	var b strings.Builder

	for {
		open := strings.Index(endpoint, "{")
		if open == -1 {
			b.WriteString(endpoint)
			break
		}
		closing := strings.Index(endpoint[open:], "}")
		if closing == -1 {
			return "", nil, fmt.Errorf("unbalanced placeholder in endpoint %q", endpoint)
		}
		closing += open

		name := endpoint[open+1 : closing]
		val, ok := args[name]
		if !ok {
			return "", nil, fmt.Errorf("endpoint placeholder {%s} has no matching argument", name)
		}

		b.WriteString(endpoint[:open])
		b.WriteString(url.PathEscape(fmt.Sprintf("%v", val)))
		used[name] = true
		endpoint = endpoint[closing+1:]
	}

	return b.String(), used, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
