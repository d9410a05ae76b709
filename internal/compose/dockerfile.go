package compose

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/braid-labs/braid/internal/detect"
)

// DockerfileData holds template variables for Dockerfile generation.
type DockerfileData struct {
	Port           int
	HealthEndpoint string
}

// dockerfileTemplates maps a detected runtime to its Dockerfile template.
// The docker runtime is absent on purpose: a template with its own
// Dockerfile is used as-is.
var dockerfileTemplates = map[string]string{
	detect.RuntimeGo: `FROM golang:1.25-alpine AS build
WORKDIR /src
COPY go.mod go.sum ./
RUN go mod download
COPY . .
RUN CGO_ENABLED=0 go build -o /out/server .

FROM alpine:3.21
RUN apk add --no-cache curl ca-certificates
COPY --from=build /out/server /usr/local/bin/server
{{- if .Port }}
EXPOSE {{ .Port }}
{{- end }}
{{- if .HealthEndpoint }}
HEALTHCHECK --interval=10s --timeout=5s --retries=3 \
  CMD curl -fsS http://localhost:{{ .Port }}{{ .HealthEndpoint }} || exit 1
{{- end }}
ENTRYPOINT ["/usr/local/bin/server"]
`,
	detect.RuntimeNode: `FROM node:22-alpine
RUN apk add --no-cache curl
WORKDIR /app
COPY package*.json ./
RUN npm ci --omit=dev
COPY . .
{{- if .Port }}
EXPOSE {{ .Port }}
{{- end }}
{{- if .HealthEndpoint }}
HEALTHCHECK --interval=10s --timeout=5s --retries=3 \
  CMD curl -fsS http://localhost:{{ .Port }}{{ .HealthEndpoint }} || exit 1
{{- end }}
CMD ["node", "index.mjs"]
`,
	detect.RuntimePython: `FROM python:3.12-slim
RUN apt-get update && apt-get install -y --no-install-recommends curl && rm -rf /var/lib/apt/lists/*
WORKDIR /app
COPY requirements.txt ./
RUN pip install --no-cache-dir -r requirements.txt
COPY . .
{{- if .Port }}
EXPOSE {{ .Port }}
{{- end }}
{{- if .HealthEndpoint }}
HEALTHCHECK --interval=10s --timeout=5s --retries=3 \
  CMD curl -fsS http://localhost:{{ .Port }}{{ .HealthEndpoint }} || exit 1
{{- end }}
CMD ["python", "main.py"]
`,
}

// Dockerfile renders a Dockerfile for the given runtime. The docker runtime
// returns an error: such templates ship their own Dockerfile.
func Dockerfile(runtime string, data DockerfileData) ([]byte, error) {
	if runtime == detect.RuntimeDocker {
		return nil, fmt.Errorf("runtime %q provides its own Dockerfile", runtime)
	}

	tmplText, ok := dockerfileTemplates[runtime]
	if !ok {
		return nil, fmt.Errorf("no Dockerfile template for runtime %q", runtime)
	}

	tmpl, err := template.New("dockerfile").Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("parsing Dockerfile template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering Dockerfile: %w", err)
	}
	return buf.Bytes(), nil
}
