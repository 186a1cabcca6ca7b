package tools

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/averycrespi/vooshi/internal/results"
	"github.com/averycrespi/vooshi/pkg/types"
)

// ResolvePath makes a file path or file URI absolute against the workspace root
func ResolvePath(filePath, workspaceRoot string) string {
	filePath = UriToPath(filePath)
	if filePath == "" {
		return ""
	}
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(workspaceRoot, filePath)
	}
	return filepath.Clean(filePath)
}

// UriToPath converts a file URI to a local file path
func UriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// GetPosition extracts the 0-indexed position from an MCP request
func GetPosition(req mcp.CallToolRequest) (types.Position, error) {
	line := mcp.ParseFloat64(req, "line", 0)
	character := mcp.ParseFloat64(req, "character", 0)

	if line < 0 || character < 0 {
		return types.Position{}, fmt.Errorf("line and character must not be negative, got %v:%v", line, character)
	}

	return types.Position{
		Line:      int(line),
		Character: int(character),
	}, nil
}

// GetCursor reads the target file and cursor from either the anchor argument
// or the file_path, line and character arguments. The file is resolved
// against the workspace root
func GetCursor(req mcp.CallToolRequest, workspaceRoot string) (string, types.Position, error) {
	if anchor := mcp.ParseString(req, "anchor", ""); anchor != "" {
		file, pos, err := results.CursorAnchor(anchor).ToFilePosition()
		if err != nil {
			return "", types.Position{}, fmt.Errorf("invalid anchor: %w", err)
		}
		return ResolvePath(file, workspaceRoot), pos, nil
	}

	filePath := mcp.ParseString(req, "file_path", "")
	if filePath == "" {
		return "", types.Position{}, fmt.Errorf("file_path or anchor parameter is required")
	}

	pos, err := GetPosition(req)
	if err != nil {
		return "", types.Position{}, err
	}
	return ResolvePath(filePath, workspaceRoot), pos, nil
}

// GetRelativePath converts absolute path to relative path from workspace root
func GetRelativePath(absolutePath, workspaceRoot string) string {
	if rel, err := filepath.Rel(workspaceRoot, absolutePath); err == nil {
		return rel
	}
	return filepath.Base(absolutePath)
}

// cursorOptions are the parameters shared by the cursor-based tools
func cursorOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("file_path", mcp.Description("Path to the source file, absolute or relative to the workspace root")),
		mcp.WithNumber("line", mcp.Description("Cursor line (0-indexed)")),
		mcp.WithNumber("character", mcp.Description("Cursor character (0-indexed)")),
		mcp.WithString("anchor", mcp.Description("Cursor anchor (e.g. 'vooshi://main.go#12:5', 1-indexed); used instead of file_path, line and character")),
	}
}
