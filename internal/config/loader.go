package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. VOOSHI_ENDPOINT
const EnvPrefix = "VOOSHI"

// Loader provides configuration loading capabilities
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	configFile  string
	searchPaths []string
}

// NewLoader creates a loader. An empty configFile searches for .vooshi.yaml
// in the working directory and then $HOME; a named file must exist
func NewLoader(configFile string) Loader {
	var paths []string
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, wd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}
	return &loader{configFile: configFile, searchPaths: paths}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(".vooshi")
		v.SetConfigType("yaml")
		for _, p := range l.searchPaths {
			v.AddConfigPath(p)
		}
	}

	// VOOSHI_LSP_COMMAND overrides lsp.command
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("Loaded config file", "path", used)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can find it on Unmarshal
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("endpoint", defaults.Endpoint)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("provider", defaults.Provider)
	v.SetDefault("lsp.command", defaults.LSP.Command)
	v.SetDefault("lsp.args", defaults.LSP.Args)
	v.SetDefault("workspace_root", defaults.WorkspaceRoot)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("mock.port", defaults.Mock.Port)
	v.SetDefault("poll_interval", defaults.PollInterval)
}

// Load is a convenience function that creates a loader and loads config
func Load(configFile string) (*Config, error) {
	return NewLoader(configFile).Load()
}
