package compose

// Document is a docker-compose.yml document. Maps marshal with sorted keys,
// so output is deterministic for identical inputs.
type Document struct {
	Services map[string]*Service       `yaml:"services"`
	Networks map[string]*Network       `yaml:"networks,omitempty"`
	Volumes  map[string]map[string]any `yaml:"volumes,omitempty"`
}

// Service is one service block in a compose document.
type Service struct {
	Image       string                      `yaml:"image,omitempty"`
	Build       *Build                      `yaml:"build,omitempty"`
	Ports       []string                    `yaml:"ports,omitempty"`
	Environment map[string]string           `yaml:"environment,omitempty"`
	Healthcheck *Healthcheck                `yaml:"healthcheck,omitempty"`
	DependsOn   map[string]DependsCondition `yaml:"depends_on,omitempty"`
	Restart     string                      `yaml:"restart,omitempty"`
	Networks    []string                    `yaml:"networks,omitempty"`
	Deploy      *Deploy                     `yaml:"deploy,omitempty"`
}

// Build is a compose build block.
type Build struct {
	Context    string `yaml:"context"`
	Dockerfile string `yaml:"dockerfile,omitempty"`
}

// Healthcheck is a compose healthcheck block.
type Healthcheck struct {
	Test        []string `yaml:"test"`
	Interval    string   `yaml:"interval,omitempty"`
	Timeout     string   `yaml:"timeout,omitempty"`
	Retries     int      `yaml:"retries,omitempty"`
	StartPeriod string   `yaml:"start_period,omitempty"`
}

// DependsCondition is the long-form depends_on entry.
type DependsCondition struct {
	Condition string `yaml:"condition"`
}

// Deploy carries resource limits for a service.
type Deploy struct {
	Resources ResourceSpec `yaml:"resources"`
}

// ResourceSpec holds the limits block.
type ResourceSpec struct {
	Limits ResourceLimits `yaml:"limits"`
}

// ResourceLimits are per-service cpu/memory caps.
type ResourceLimits struct {
	CPUs   string `yaml:"cpus,omitempty"`
	Memory string `yaml:"memory,omitempty"`
}

// Network is a compose network block.
type Network struct {
	Driver string `yaml:"driver,omitempty"`
}

// Dependency conditions understood by compose.
const (
	ConditionHealthy = "service_healthy"
	ConditionStarted = "service_started"
)

// DefaultNetwork is the network every generated service joins.
const DefaultNetwork = "braid"
