package results

import (
	"github.com/averycrespi/vooshi/internal/extractor"
	"github.com/averycrespi/vooshi/pkg/types"
)

// SnippetLocation is the span of a snippet in its file, in 1-indexed display lines
type SnippetLocation struct {
	File             string `json:"file"`
	DisplayStartLine int    `json:"display_start_line"`
	DisplayEndLine   int    `json:"display_end_line"`
}

// ExtractedSnippet describes the region extracted around a cursor
type ExtractedSnippet struct {
	SymbolName     string          `json:"symbol_name,omitempty"`
	IsFunction     bool            `json:"is_function"`
	Location       SnippetLocation `json:"location"`
	Anchor         CursorAnchor    `json:"anchor"`
	RelativeCursor types.Position  `json:"relative_cursor"`
	Snippet        string          `json:"snippet"`
	Source         *SourceContext  `json:"source"`
}

// NewExtractedSnippet builds the result view of an ExtractedContext. file is
// the display path and cursor the 0-indexed cursor the context was taken at
func NewExtractedSnippet(file string, cursor types.Position, ctx extractor.ExtractedContext) ExtractedSnippet {
	return ExtractedSnippet{
		SymbolName: ctx.SymbolName,
		IsFunction: ctx.IsFunction,
		Location: SnippetLocation{
			File:             file,
			DisplayStartLine: ctx.StartLine + 1,
			DisplayEndLine:   ctx.EndLine + 1,
		},
		Anchor:         AnchorForPosition(file, cursor),
		RelativeCursor: ctx.RelativeCursor,
		Snippet:        ctx.Snippet,
		Source:         NewSourceContext(ctx.Snippet, ctx.StartLine, cursor.Line),
	}
}
