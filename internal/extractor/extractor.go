// Package extractor picks the code surrounding a cursor: the innermost
// enclosing function or method when the outline has one, a small line
// window otherwise
package extractor

import (
	"log/slog"

	"github.com/averycrespi/vooshi/pkg/types"
)

const (
	// MaxFunctionLines is the largest end-to-start line span accepted for a match
	MaxFunctionLines = 50
	// WindowRadius is the number of lines kept on each side of the cursor by the fallback
	WindowRadius = 3
)

// Document is the line-indexed view of the text being extracted from
type Document interface {
	LineCount() int
	LineAt(line int) string
	TextInRange(r types.Range) string
}

// ExtractedContext is the code chosen around a cursor
type ExtractedContext struct {
	Snippet        string         `json:"snippet"`
	RelativeCursor types.Position `json:"relativeCursor"`
	IsFunction     bool           `json:"isFunction"`
	SymbolName     string         `json:"symbolName,omitempty"`
	StartLine      int            `json:"startLine"`
	EndLine        int            `json:"endLine"`
}

// Extract returns the context around cursor. The cursor must already lie
// inside the document; an empty or nil outline selects the line window
func Extract(doc Document, cursor types.Position, outline []SymbolNode) ExtractedContext {
	if match := FindEnclosing(outline, cursor); match != nil {
		if span := match.Range.LineSpan(); span > MaxFunctionLines {
			slog.Info("Enclosing function is too big, using line window",
				"name", match.Name,
				"lines", span,
				"max_lines", MaxFunctionLines)
		} else {
			return ExtractedContext{
				Snippet:        doc.TextInRange(match.Range),
				RelativeCursor: relativeTo(cursor, match.Range.Start.Line),
				IsFunction:     true,
				SymbolName:     match.Name,
				StartLine:      match.Range.Start.Line,
				EndLine:        match.Range.End.Line,
			}
		}
	}

	window := Window(doc, cursor)
	return ExtractedContext{
		Snippet:        doc.TextInRange(window),
		RelativeCursor: relativeTo(cursor, window.Start.Line),
		IsFunction:     false,
		StartLine:      window.Start.Line,
		EndLine:        window.End.Line,
	}
}

// FindEnclosing returns the innermost function or method containing pos, or nil
func FindEnclosing(outline []SymbolNode, pos types.Position) *SymbolNode {
	for i := range outline {
		node := &outline[i]
		if !node.Range.Contains(pos) {
			continue
		}

		if child := FindEnclosing(node.Children, pos); child != nil {
			return child
		}
		if node.Kind.IsFunctionLike() {
			return node
		}
	}
	return nil
}

// Window returns the fallback range of up to 2*WindowRadius+1 whole lines centred on cursor
func Window(doc Document, cursor types.Position) types.Range {
	startLine := max(cursor.Line-WindowRadius, 0)
	endLine := min(cursor.Line+WindowRadius, doc.LineCount()-1)

	return types.Range{
		Start: types.Position{Line: startLine, Character: 0},
		End:   types.Position{Line: endLine, Character: len(doc.LineAt(endLine))},
	}
}

func relativeTo(cursor types.Position, startLine int) types.Position {
	return types.Position{
		Line:      cursor.Line - startLine,
		Character: cursor.Character,
	}
}
