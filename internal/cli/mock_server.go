package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/averycrespi/vooshi/internal/mockserver"
)

func newMockServerCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a mock analysis endpoint that logs received snippets",
		Long: `Serve POST /analyze and GET /health. Every received snippet is logged and
acknowledged with {"status":"ok","receivedAt":...}.

Example:
  vooshi mock-server --port 5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				if port <= 0 || port > 65535 {
					return fmt.Errorf("--port must be in 1-65535, got %d", port)
				}
				a.cfg.Mock.Port = port
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return mockserver.NewServer(a.logger).ListenAndRun(ctx, a.cfg.Mock.Port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from mock.port, 5000)")
	return cmd
}
