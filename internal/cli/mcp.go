package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/averycrespi/vooshi/internal/server"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the vooshi tools over MCP stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout. It exposes:

- send_snippet: run vooshi.sendSnippet for a file and cursor
- extract_context: show what would be sent, without sending it

Logs go to stderr.

Example:
  vooshi mcp --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(a)
		},
	}
}

func runMCP(a *app) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := buildComponents(a.cfg)
	if err != nil {
		return err
	}

	opts := server.Options{
		Host:          c.host,
		Editor:        c.editor,
		Provider:      c.provider,
		Endpoint:      c.reporter.URL(),
		WorkspaceRoot: c.workspaceRoot,
	}
	if c.manager != nil {
		opts.Manager = c.manager
	}
	s := server.NewVooshiServer(opts)

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Timeout*2)
		defer shutdownCancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Failed to shut down cleanly", "error", err)
		}
	}()

	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}
