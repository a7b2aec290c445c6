package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no client-side timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "knowledge-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

const (
	// DefaultBaseURL is the OpenAI-compatible API root used when none is configured.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModelID is the model used when none is configured.
	DefaultModelID = "gpt-4o"

	// DefaultMaxSources bounds the number of sources in a session.
	DefaultMaxSources = 20

	// DefaultChartURL is the Graphviz endpoint of the chart-rendering service.
	DefaultChartURL = "https://quickchart.io/graphviz"
)

// AgentConfig holds settings for the agent team.
type AgentConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the bearer token for the OpenAI-compatible API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// MaxRetries bounds rate-limit (HTTP 429) retries in the transport (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// StructuredOutput asks the model for a {"result": ...} JSON object.
	StructuredOutput bool `json:"structured_output" yaml:"structured_output"`
}

// SessionConfig holds settings for the source session.
type SessionConfig struct {
	// Dir holds the session database (default ".knowledge-agent").
	Dir string `json:"dir" yaml:"dir"`

	// MaxSources bounds the number of sources (default 20).
	MaxSources int `json:"max_sources" yaml:"max_sources"`
}

// ChartConfig holds settings for the chart-rendering service.
type ChartConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the Graphviz rendering endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// Settings is the persisted connection settings blob.
type Settings struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	ModelID string `json:"model_id"`
}

// IsZero reports whether no setting is present.
func (s Settings) IsZero() bool {
	return s.APIKey == "" && s.BaseURL == "" && s.ModelID == ""
}
