package types

const (
	DefaultModel        = "gpt-4o-mini"
	DefaultPort         = 3000
	DefaultMCPServerURL = "https://sx8ajmutmd.us-east-1.awsapprunner.com/mcp"
)

// Env selects development or production behavior
type Env string

const (
	Env_Development Env = "development"
	Env_Production  Env = "production"
)

// Config represents the service configuration
type Config struct {
	APIKey       string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	Model        string `yaml:"model,omitempty" json:"model,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	MCPServerURL string `yaml:"mcp_server_url,omitempty" json:"mcp_server_url,omitempty"`
	Env          Env    `yaml:"env,omitempty" json:"env,omitempty"`
	Port         int    `yaml:"port,omitempty" json:"port,omitempty"`
}

// IsDevelopment enables verbose logging of remote calls.
func (c Config) IsDevelopment() bool {
	return c.Env == Env_Development
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MCPServerURL == "" {
		c.MCPServerURL = DefaultMCPServerURL
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Env == "" {
		c.Env = Env_Production
	}
	return c
}
