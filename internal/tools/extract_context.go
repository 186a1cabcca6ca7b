package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/averycrespi/vooshi/internal/command"
	"github.com/averycrespi/vooshi/internal/document"
	"github.com/averycrespi/vooshi/internal/outline"
	"github.com/averycrespi/vooshi/internal/results"
)

// ToolExtractContext is the name of the extract-only tool
const ToolExtractContext = "extract_context"

// ExtractContextTool handles extract context requests. Nothing is sent
type ExtractContextTool struct {
	provider      outline.Provider
	workspaceRoot string
}

// NewExtractContextTool creates a new extract context tool
func NewExtractContextTool(provider outline.Provider, workspaceRoot string) *ExtractContextTool {
	return &ExtractContextTool{
		provider:      provider,
		workspaceRoot: workspaceRoot,
	}
}

// GetTool returns the MCP tool definition
func (t *ExtractContextTool) GetTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Extract the code that would be sent for a cursor position: " +
			"the enclosing function or method, or the lines around the cursor. Nothing is sent."),
	}, cursorOptions()...)
	return mcp.NewTool(ToolExtractContext, opts...)
}

// Handle processes the tool request
func (t *ExtractContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, cursor, err := GetCursor(req, t.workspaceRoot)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := document.Load(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to open file: %s: %v", path, err)), nil
	}

	cursor = doc.ClampPosition(cursor)
	extracted := command.ExtractContext(ctx, t.provider, doc, cursor)
	display := GetRelativePath(path, t.workspaceRoot)

	toolResult := results.ExtractContextToolResult{
		Arguments: results.CursorToolArgs{
			FilePath:  display,
			Line:      cursor.Line,
			Character: cursor.Character,
		},
		Context: results.NewExtractedSnippet(display, cursor, extracted),
	}
	if extracted.IsFunction {
		toolResult.Message = fmt.Sprintf("Cursor is inside %s.", extracted.SymbolName)
	} else {
		toolResult.Message = "Cursor is not inside a function small enough to send; using the surrounding lines."
	}

	jsonBytes, err := json.MarshalIndent(toolResult, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal tool result JSON: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}
