package results

import "strings"

// SourceContext represents an extracted snippet as numbered source lines
type SourceContext struct {
	Lines []SourceLine `json:"lines"`
}

// SourceLine represents a line of source code
type SourceLine struct {
	Number    int    `json:"number"`
	Content   string `json:"content"`
	Highlight bool   `json:"highlight"`
}

// NewSourceContext splits a snippet that starts at the 0-indexed startLine
// into display lines (1-indexed). The line holding the cursor is highlighted
func NewSourceContext(snippet string, startLine int, cursorLine int) *SourceContext {
	lines := strings.Split(snippet, "\n")
	sourceLines := make([]SourceLine, 0, len(lines))

	for i, content := range lines {
		sourceLines = append(sourceLines, SourceLine{
			Number:    startLine + i + 1,
			Content:   strings.TrimSuffix(content, "\r"),
			Highlight: startLine+i == cursorLine,
		})
	}

	return &SourceContext{Lines: sourceLines}
}
