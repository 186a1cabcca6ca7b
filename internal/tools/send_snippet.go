package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/averycrespi/vooshi/internal/command"
	"github.com/averycrespi/vooshi/internal/document"
	"github.com/averycrespi/vooshi/internal/extractor"
	"github.com/averycrespi/vooshi/internal/results"
)

// ToolSendSnippet is the name of the tool that runs vooshi.sendSnippet
const ToolSendSnippet = "send_snippet"

// Executor runs host commands. *command.Host satisfies it
type Executor interface {
	Execute(ctx context.Context, name string) (any, error)
}

// SendSnippetTool points the active editor at the requested file and cursor
// and runs the send command
type SendSnippetTool struct {
	host          Executor
	editor        *command.ActiveEditor
	endpoint      string
	workspaceRoot string

	// mu keeps the editor state and the command run together
	mu sync.Mutex
}

// NewSendSnippetTool creates a new send snippet tool
func NewSendSnippetTool(host Executor, editor *command.ActiveEditor, endpoint string, workspaceRoot string) *SendSnippetTool {
	return &SendSnippetTool{
		host:          host,
		editor:        editor,
		endpoint:      endpoint,
		workspaceRoot: workspaceRoot,
	}
}

// GetTool returns the MCP tool definition
func (t *SendSnippetTool) GetTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Send the code around a cursor position to the analysis endpoint. " +
			"Delivery happens in the background; the result only reports what was queued."),
	}, cursorOptions()...)
	return mcp.NewTool(ToolSendSnippet, opts...)
}

// Handle processes the tool request
func (t *SendSnippetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, cursor, err := GetCursor(req, t.workspaceRoot)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := document.Load(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to open file: %s: %v", path, err)), nil
	}
	cursor = doc.ClampPosition(cursor)

	t.mu.Lock()
	t.editor.Open(doc, cursor)
	result, err := t.host.Execute(ctx, command.SendSnippetCommand)
	t.editor.Close()
	t.mu.Unlock()

	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to run %s: %v", command.SendSnippetCommand, err)), nil
	}

	display := GetRelativePath(path, t.workspaceRoot)
	toolResult := results.SendSnippetToolResult{
		Arguments: results.CursorToolArgs{
			FilePath:  display,
			Line:      cursor.Line,
			Character: cursor.Character,
		},
		Endpoint: t.endpoint,
	}

	if extracted, ok := result.(*extractor.ExtractedContext); ok && extracted != nil {
		snippet := results.NewExtractedSnippet(display, cursor, *extracted)
		toolResult.Queued = true
		toolResult.Context = &snippet
		toolResult.Message = fmt.Sprintf("Snippet of %d lines queued for %s.", len(snippet.Source.Lines), t.endpoint)
	} else {
		toolResult.Message = "No active editor; nothing was sent."
	}

	jsonBytes, err := json.MarshalIndent(toolResult, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal tool result JSON: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}
