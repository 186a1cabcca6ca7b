package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/averycrespi/vooshi/internal/command"
	"github.com/averycrespi/vooshi/internal/outline"
	"github.com/averycrespi/vooshi/internal/tools"
	"github.com/averycrespi/vooshi/pkg/project"
	"github.com/averycrespi/vooshi/pkg/types"

	"github.com/mark3labs/mcp-go/server"
)

var _ types.Server = &VooshiServer{}

// LanguageServerManager shuts down the language server behind the lsp provider
type LanguageServerManager interface {
	Shutdown(ctx context.Context) error
}

// Options wires the server to its collaborators
type Options struct {
	Host          *command.Host
	Editor        *command.ActiveEditor
	Provider      outline.Provider
	Manager       LanguageServerManager
	Endpoint      string
	WorkspaceRoot string
}

// VooshiServer represents the vooshi MCP server
type VooshiServer struct {
	mcpServer *server.MCPServer
	opts      Options
}

// NewVooshiServer creates a new vooshi MCP server with its tools registered
func NewVooshiServer(opts Options) *VooshiServer {
	s := &VooshiServer{
		mcpServer: server.NewMCPServer(project.Name, project.Version),
		opts:      opts,
	}
	s.registerTools()
	return s
}

// MCPServer exposes the underlying server for in-process clients
func (s *VooshiServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Start activates the host and serves MCP over stdio until stdin closes
func (s *VooshiServer) Start(ctx context.Context) error {
	slog.Info("Starting vooshi MCP server",
		"endpoint", s.opts.Endpoint,
		"workspace_root", s.opts.WorkspaceRoot,
	)

	if err := s.opts.Host.Activate(ctx); err != nil {
		return fmt.Errorf("failed to activate host: %w", err)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve MCP server: %w", err)
	}

	return nil
}

func (s *VooshiServer) registerTools() {
	sendTool := tools.NewSendSnippetTool(s.opts.Host, s.opts.Editor, s.opts.Endpoint, s.opts.WorkspaceRoot)
	s.mcpServer.AddTool(sendTool.GetTool(), sendTool.Handle)

	extractTool := tools.NewExtractContextTool(s.opts.Provider, s.opts.WorkspaceRoot)
	s.mcpServer.AddTool(extractTool.GetTool(), extractTool.Handle)
}

// Shutdown deactivates the host, draining in-flight sends, and stops the
// language server
func (s *VooshiServer) Shutdown(ctx context.Context) error {
	if err := s.opts.Host.Deactivate(ctx); err != nil {
		slog.Warn("Host did not deactivate cleanly", "error", err)
	}

	if s.opts.Manager == nil {
		return nil
	}
	if err := s.opts.Manager.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown language server: %w", err)
	}

	return nil
}
