package run

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/whatmeme/whatmeme-webapp/providers"
	"github.com/whatmeme/whatmeme-webapp/types"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML or JSON file.
// ${VAR} references are expanded from the environment.
func LoadConfig(configFile string) (types.Config, error) {
	if configFile == "" {
		return types.Config{}, nil
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		return types.Config{}, fmt.Errorf("read config file %s: %w", configFile, err)
	}

	expanded := os.ExpandEnv(string(data))

	var config types.Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return types.Config{}, fmt.Errorf("parse config file %s: %w", configFile, err)
	}
	return config, nil
}

// ApplyEnv overrides config values with the environment
func ApplyEnv(config *types.Config, getenv func(string) string) error {
	if v := getenv("OPENAI_API_KEY"); v != "" {
		config.APIKey = v
	}
	if v := getenv("OPENAI_MODEL"); v != "" {
		config.Model = v
	}
	if v := getenv("OPENAI_BASE_URL"); v != "" {
		config.BaseURL = v
	}
	if v := getenv("MCP_SERVER_URL"); v != "" {
		config.MCPServerURL = v
	}
	env := getenv("APP_ENV")
	if env == "" {
		env = getenv("NODE_ENV")
	}
	if env != "" {
		config.Env = types.Env(strings.ToLower(env))
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		config.Port = port
	}
	return nil
}

// configFlags are the command-line overrides shared by subcommands
type configFlags struct {
	configFile   string
	apiKey       string
	model        string
	baseURL      string
	mcpServerURL string
	port         int
	verbose      bool
}

func (f *configFlags) apply(config *types.Config) {
	if f.apiKey != "" {
		config.APIKey = f.apiKey
	}
	if f.model != "" {
		config.Model = f.model
	}
	if f.baseURL != "" {
		config.BaseURL = f.baseURL
	}
	if f.mcpServerURL != "" {
		config.MCPServerURL = f.mcpServerURL
	}
	if f.port != 0 {
		config.Port = f.port
	}
	if f.verbose {
		config.Env = types.Env_Development
	}
}

// ResolveConfig layers file, environment and flags, then fills defaults
func ResolveConfig(f *configFlags, getenv func(string) string) (types.Config, error) {
	config, err := LoadConfig(f.configFile)
	if err != nil {
		return types.Config{}, err
	}
	if err := ApplyEnv(&config, getenv); err != nil {
		return types.Config{}, err
	}
	f.apply(&config)
	config = config.WithDefaults()
	if config.APIKey == "" {
		config.APIKey = providerAPIKey(config.Model, getenv)
	}
	return config, nil
}

// providerAPIKey falls back to the provider's own credential variable
func providerAPIKey(model string, getenv func(string) string) string {
	provider, err := providers.GetModelProvider(model)
	if err != nil {
		return ""
	}
	switch provider {
	case providers.ProviderAnthropic:
		return getenv("ANTHROPIC_API_KEY")
	case providers.ProviderGemini:
		return getenv("GEMINI_API_KEY")
	}
	return ""
}

func listModels() error {
	for _, model := range providers.AllModels {
		fmt.Println(model)
	}
	return nil
}
