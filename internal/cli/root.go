// Package cli implements the vooshi command line
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/averycrespi/vooshi/internal/config"
	"github.com/averycrespi/vooshi/pkg/project"
)

// app carries the state shared by the subcommands of one invocation
type app struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
	logger   *slog.Logger
}

// NewRootCmd builds the vooshi command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   project.Name,
		Short: "Send the code around your cursor to an analysis endpoint",
		Long: `vooshi extracts the function or method enclosing a cursor position, or the
lines around it, and posts it as JSON to <endpoint>/analyze.

Configuration is read from .vooshi.yaml in the working directory or $HOME,
or from --config, and can be overridden with VOOSHI_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./.vooshi.yaml or $HOME/.vooshi.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newSendCmd(a),
		newMCPCmd(a),
		newMockServerCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// init loads configuration and installs the logger
func (a *app) init(stderr io.Writer) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	return nil
}

// ParseLevel converts a configured level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", name)
	}
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main()
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("vooshi failed", "error", err)
		os.Exit(1)
	}
}
