// Package config loads vooshi settings from defaults, a YAML file and the
// environment
package config

import (
	"time"

	"github.com/averycrespi/vooshi/internal/outline"
)

// Config is the complete vooshi configuration
type Config struct {
	// Endpoint is the analysis endpoint base URL; /analyze is appended
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Provider is "lsp", "treesitter" or "none"
	Provider      string    `yaml:"provider" mapstructure:"provider"`
	LSP           LSPConfig `yaml:"lsp" mapstructure:"lsp"`
	WorkspaceRoot string    `yaml:"workspace_root" mapstructure:"workspace_root"`

	LogLevel     string        `yaml:"log_level" mapstructure:"log_level"`
	Mock         MockConfig    `yaml:"mock" mapstructure:"mock"`
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
}

// LSPConfig selects the language server process
type LSPConfig struct {
	Command string   `yaml:"command" mapstructure:"command"`
	Args    []string `yaml:"args" mapstructure:"args"`
}

// MockConfig configures the mock analysis server
type MockConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Endpoint:      "http://localhost:5000",
		Timeout:       5 * time.Second,
		Provider:      outline.ProviderLSP,
		LSP:           LSPConfig{Command: "gopls", Args: []string{"serve"}},
		WorkspaceRoot: ".",
		LogLevel:      "info",
		Mock:          MockConfig{Port: 5000},
		PollInterval:  5 * time.Second,
	}
}
