package cli

import (
	"fmt"
	"path/filepath"

	"github.com/averycrespi/vooshi/internal/client"
	"github.com/averycrespi/vooshi/internal/command"
	"github.com/averycrespi/vooshi/internal/config"
	"github.com/averycrespi/vooshi/internal/outline"
	"github.com/averycrespi/vooshi/internal/reporter"
)

// components are the collaborators behind the send and mcp commands
type components struct {
	workspaceRoot string
	editor        *command.ActiveEditor
	provider      outline.Provider
	manager       *client.Manager
	reporter      *reporter.Reporter
	host          *command.Host
}

// buildComponents wires the outline provider, reporter and host from cfg.
// The language server is only started on first use
func buildComponents(cfg *config.Config) (*components, error) {
	root, err := filepath.Abs(cfg.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root %s: %w", cfg.WorkspaceRoot, err)
	}

	rep, err := reporter.New(cfg.Endpoint, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create reporter: %w", err)
	}

	var manager *client.Manager
	var source outline.ClientSource
	if cfg.Provider == outline.ProviderLSP {
		manager = client.NewManager(cfg.LSP.Command, cfg.LSP.Args, root)
		source = manager
	}

	provider, err := outline.NewProvider(cfg.Provider, source)
	if err != nil {
		return nil, err
	}

	editor := &command.ActiveEditor{}
	sendSnippet := command.NewSendSnippet(editor, provider, rep, command.LogNotifier{})

	return &components{
		workspaceRoot: root,
		editor:        editor,
		provider:      provider,
		manager:       manager,
		reporter:      rep,
		host:          command.NewHost(sendSnippet, rep, cfg.PollInterval),
	}, nil
}
