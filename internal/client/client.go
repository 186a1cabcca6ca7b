package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/averycrespi/vooshi/internal/transport"
	"github.com/averycrespi/vooshi/pkg/project"
	"github.com/averycrespi/vooshi/pkg/types"
)

// Position encodings from LSP 3.17
const (
	PositionEncodingUTF8  = "utf-8"
	PositionEncodingUTF16 = "utf-16"
)

const (
	defaultServerCommand = "gopls"
)

var defaultServerArgs = []string{"serve"}

var _ types.Client = &LanguageServerClient{}

// LanguageServerClient implements the Client interface for a stdio language server
type LanguageServerClient struct {
	command   string
	args      []string
	cmd       *exec.Cmd
	stderr    io.ReadCloser
	transport types.Transport

	// positionEncoding is the column unit the server agreed to
	positionEncoding string
}

// NewLanguageServerClient creates a new language server client
func NewLanguageServerClient(command string, args []string) *LanguageServerClient {
	if command == "" {
		command = defaultServerCommand
		args = defaultServerArgs
	}

	slog.Debug("Creating new language server client", "command", command, "args", args)

	return &LanguageServerClient{
		command: command,
		args:    args,
	}
}

// newClientWithTransport builds a client over an already connected transport
func newClientWithTransport(t types.Transport) *LanguageServerClient {
	return &LanguageServerClient{transport: t}
}

// Start launches the language server and performs the initialize handshake
func (c *LanguageServerClient) Start(ctx context.Context, workspaceRoot string) error {
	slog.Debug("Starting language server", "command", c.command, "workspace_root", workspaceRoot)

	c.cmd = exec.Command(c.command, c.args...)

	stdin, err := c.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	stdout, err := c.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := c.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	c.stderr = stderr
	c.transport = transport.NewJsonRpcTransport(stdin, stdout)

	if err := c.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start language server command: %w", err)
	}
	slog.Debug("Language server process started", "pid", c.cmd.Process.Pid)

	go func() {
		_, _ = io.Copy(io.Discard, stderr)
	}()

	if err := c.transport.Start(); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}

	rootURI := "file://" + workspaceRoot
	slog.Debug("Initializing language server", "root_uri", rootURI)
	if err := c.initialize(ctx, rootURI); err != nil {
		return fmt.Errorf("failed to initialize language server: %w", err)
	}
	slog.Debug("Language server initialized")

	return nil
}

func (c *LanguageServerClient) initialize(ctx context.Context, rootURI string) error {
	params := map[string]any{
		"processId": nil,
		"clientInfo": map[string]any{
			"name":    project.Name,
			"version": project.Version,
		},
		"rootUri": rootURI,
		"capabilities": map[string]any{
			"general": map[string]any{
				"positionEncodings": []string{PositionEncodingUTF8},
			},
			"textDocument": map[string]any{
				"documentSymbol": map[string]any{
					"hierarchicalDocumentSymbolSupport": true,
				},
			},
		},
	}

	result, err := c.transport.SendRequest(ctx, "initialize", params)
	if err != nil {
		return fmt.Errorf("failed to send initialization request: %w", err)
	}

	var initResult struct {
		Capabilities struct {
			PositionEncoding string `json:"positionEncoding"`
		} `json:"capabilities"`
	}
	if len(result) > 0 {
		if err := json.Unmarshal(result, &initResult); err != nil {
			return fmt.Errorf("failed to unmarshal initialization response: %w", err)
		}
	}
	// Servers that omit positionEncoding use UTF-16
	c.positionEncoding = initResult.Capabilities.PositionEncoding
	if c.positionEncoding == "" {
		c.positionEncoding = PositionEncodingUTF16
	}
	if c.positionEncoding != PositionEncodingUTF8 {
		slog.Debug("Language server did not accept utf-8 positions; non-ASCII columns may be misaligned",
			"position_encoding", c.positionEncoding)
	}

	if err := c.transport.SendNotification("initialized", map[string]any{}); err != nil {
		return fmt.Errorf("failed to send initialization notification: %w", err)
	}

	return nil
}

// PositionEncoding returns the column unit negotiated at initialize
func (c *LanguageServerClient) PositionEncoding() string {
	return c.positionEncoding
}

// Stop shuts the language server down and reaps its process
func (c *LanguageServerClient) Stop(ctx context.Context) error {
	if c.transport == nil {
		return nil
	}

	if _, err := c.transport.SendRequest(ctx, "shutdown", nil); err != nil {
		slog.Warn("Language server did not acknowledge shutdown", "error", err)
	}

	if err := c.transport.SendNotification("exit", nil); err != nil {
		slog.Warn("Failed to send exit notification", "error", err)
	}

	if err := c.transport.Stop(); err != nil {
		return fmt.Errorf("failed to stop transport: %w", err)
	}

	if c.cmd != nil && c.cmd.Process != nil {
		if err := c.cmd.Process.Kill(); err != nil {
			slog.Debug("Language server process already exited", "error", err)
		}
		_ = c.cmd.Wait()
	}

	return nil
}

// OpenDocument tells the server about the current contents of a document
func (c *LanguageServerClient) OpenDocument(ctx context.Context, uri string, languageID string, text string) error {
	slog.Debug("Opening document", "uri", uri, "language_id", languageID)

	params := map[string]any{
		"textDocument": map[string]any{
			"uri":        uri,
			"languageId": languageID,
			"version":    1,
			"text":       text,
		},
	}

	if err := c.transport.SendNotification("textDocument/didOpen", params); err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	return nil
}

func (c *LanguageServerClient) CloseDocument(ctx context.Context, uri string) error {
	params := map[string]any{
		"textDocument": map[string]any{
			"uri": uri,
		},
	}

	if err := c.transport.SendNotification("textDocument/didClose", params); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	return nil
}

func (c *LanguageServerClient) GetDocumentSymbols(ctx context.Context, uri string) ([]types.DocumentSymbol, error) {
	slog.Debug("Getting document symbols", "uri", uri)

	params := map[string]any{
		"textDocument": map[string]any{
			"uri": uri,
		},
	}

	response, err := c.transport.SendRequest(ctx, "textDocument/documentSymbol", params)
	if err != nil {
		return nil, fmt.Errorf("failed to get document symbols: %w", err)
	}

	return decodeDocumentSymbols(uri, response)
}

// decodeDocumentSymbols handles null, DocumentSymbol[] and SymbolInformation[] responses
func decodeDocumentSymbols(uri string, response json.RawMessage) ([]types.DocumentSymbol, error) {
	if len(response) == 0 || string(response) == "null" {
		slog.Debug("No document symbols found", "uri", uri)
		return []types.DocumentSymbol{}, nil
	}

	// Only the flat SymbolInformation form carries a location
	var probe []struct {
		Location *types.Location `json:"location"`
	}
	if err := json.Unmarshal(response, &probe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document symbols response: %w", err)
	}

	if len(probe) > 0 && probe[0].Location != nil {
		var symbolInfos []types.SymbolInformation
		if err := json.Unmarshal(response, &symbolInfos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document symbols response: %w", err)
		}

		symbols := make([]types.DocumentSymbol, len(symbolInfos))
		for i, info := range symbolInfos {
			symbols[i] = types.DocumentSymbol{
				Name:           info.Name,
				Kind:           info.Kind,
				Range:          info.Location.Range,
				SelectionRange: info.Location.Range,
			}
		}
		slog.Debug("Found document symbols (flat format)", "count", len(symbols), "uri", uri)
		return symbols, nil
	}

	var symbols []types.DocumentSymbol
	if err := json.Unmarshal(response, &symbols); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document symbols response: %w", err)
	}
	slog.Debug("Found document symbols (hierarchical format)", "count", len(symbols), "uri", uri)
	return symbols, nil
}
