package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/averycrespi/vooshi/internal/outline"
	"github.com/averycrespi/vooshi/internal/reporter"
)

var (
	// ErrInvalidProvider indicates an unsupported outline provider
	ErrInvalidProvider = errors.New("invalid outline provider")

	// ErrInvalidEndpoint indicates an endpoint that is not an http(s) URL
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrInvalidDuration indicates a zero or negative timeout or interval
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidPort indicates a port outside 1-65535
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrEmptyCommand indicates a missing language server command
	ErrEmptyCommand = errors.New("empty language server command")
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration is usable. All problems are
// reported together
func Validate(cfg *Config) error {
	var errs []error

	if err := outline.ValidProvider(cfg.Provider); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidProvider, err))
	}

	if _, err := reporter.AnalyzeURL(cfg.Endpoint); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err))
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidDuration, cfg.Timeout))
	}
	if cfg.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: poll_interval must be positive, got %s", ErrInvalidDuration, cfg.PollInterval))
	}

	if cfg.Mock.Port <= 0 || cfg.Mock.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: mock.port must be in 1-65535, got %d", ErrInvalidPort, cfg.Mock.Port))
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, fmt.Errorf("%w: must be debug, info, warn or error, got '%s'", ErrInvalidLogLevel, cfg.LogLevel))
	}

	if cfg.Provider == outline.ProviderLSP && strings.TrimSpace(cfg.LSP.Command) == "" {
		errs = append(errs, fmt.Errorf("%w: lsp.command is required for the lsp provider", ErrEmptyCommand))
	}

	return errors.Join(errs...)
}
