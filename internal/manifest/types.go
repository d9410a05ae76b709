package manifest

// BaseManifest contains fields shared by all manifest types.
type BaseManifest struct {
	Name        string   `yaml:"name" json:"name"`
	Type        string   `yaml:"type" json:"type"`
	Version     string   `yaml:"version" json:"version"`
	Description string   `yaml:"description" json:"description"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Author      string   `yaml:"author,omitempty" json:"author,omitempty"`
}

// AgentManifest describes an agent project: the model it drives, the tools
// it may call, and the MCP servers it depends on.
type AgentManifest struct {
	BaseManifest `yaml:",inline"`
	Model        string       `yaml:"model" json:"model"`
	SystemPrompt string       `yaml:"system_prompt,omitempty" json:"system_prompt,omitempty"`
	Tools        []string     `yaml:"tools,omitempty" json:"tools,omitempty"`
	Servers      []string     `yaml:"servers,omitempty" json:"servers,omitempty"`
	Tokens       []TokenField `yaml:"tokens,omitempty" json:"tokens,omitempty"`
}

// ToolManifest describes a callable tool. HTTP tools carry the request
// shape for the generic REST connector; builtin tools are resolved by name.
type ToolManifest struct {
	BaseManifest `yaml:",inline"`
	Runtime      string       `yaml:"runtime" json:"runtime"`
	Method       string       `yaml:"method,omitempty" json:"method,omitempty"`
	Endpoint     string       `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	TokenEnv     string       `yaml:"token_env,omitempty" json:"token_env,omitempty"`
	Inputs       []InputField `yaml:"inputs,omitempty" json:"inputs,omitempty"`
}

// ServerManifest describes an MCP server template: how to build or pull it,
// how to probe its health, and which services it must start after.
type ServerManifest struct {
	BaseManifest `yaml:",inline"`
	Image        string       `yaml:"image,omitempty" json:"image,omitempty"`
	Runtime      string       `yaml:"runtime,omitempty" json:"runtime,omitempty"`
	Port         int          `yaml:"port,omitempty" json:"port,omitempty"`
	Transport    string       `yaml:"transport" json:"transport"`
	Health       *HealthSpec  `yaml:"health,omitempty" json:"health,omitempty"`
	DependsOn    []string     `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Optional     bool         `yaml:"optional,omitempty" json:"optional,omitempty"`
	Tokens       []TokenField `yaml:"tokens,omitempty" json:"tokens,omitempty"`
	Resources    *Resources   `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// WorkflowManifest describes an ordered sequence of tool invocations.
type WorkflowManifest struct {
	BaseManifest `yaml:",inline"`
	Steps        []WorkflowStep `yaml:"steps" json:"steps"`
}

// WorkflowStep is a single step in a workflow.
type WorkflowStep struct {
	ID     string         `yaml:"id" json:"id"`
	Tool   string         `yaml:"tool" json:"tool"`
	Inputs map[string]any `yaml:"inputs,omitempty" json:"inputs,omitempty"`
}

// HealthSpec describes how to probe a server for readiness.
type HealthSpec struct {
	Endpoint    string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Interval    string `yaml:"interval,omitempty" json:"interval,omitempty"`
	Timeout     string `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Retries     int    `yaml:"retries,omitempty" json:"retries,omitempty"`
	StartPeriod string `yaml:"start_period,omitempty" json:"start_period,omitempty"`
}

// Resources holds scheduling hints for a server.
type Resources struct {
	CPU    float64 `yaml:"cpu,omitempty" json:"cpu,omitempty"`
	Memory string  `yaml:"memory,omitempty" json:"memory,omitempty"`
}

// TokenField declares an environment variable or secret a component needs.
type TokenField struct {
	Name        string `yaml:"name" json:"name"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// InputField represents an input parameter for a tool or workflow step.
type InputField struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Manifest type constants for the type discriminator field.
const (
	TypeAgent    = "agent"
	TypeTool     = "tool"
	TypeServer   = "server"
	TypeWorkflow = "workflow"
)

// ValidTypes contains all valid manifest type values.
var ValidTypes = []string{
	TypeAgent,
	TypeTool,
	TypeServer,
	TypeWorkflow,
}

// Transport constants for server manifests.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportSSE   = "sse"
)
