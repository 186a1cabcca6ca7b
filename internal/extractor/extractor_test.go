package extractor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/averycrespi/vooshi/internal/document"
	"github.com/averycrespi/vooshi/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(line, character int) types.Position {
	return types.Position{Line: line, Character: character}
}

func lines(start, end int) types.Range {
	return types.Range{Start: pos(start, 0), End: pos(end, 1)}
}

// numberedDocument builds a document whose line i reads "line i"
func numberedDocument(count int) *document.Document {
	text := make([]string, count)
	for i := range text {
		text[i] = fmt.Sprintf("line %d", i)
	}
	return document.New("/tmp/numbered.txt", strings.Join(text, "\n"))
}

func lineCount(snippet string) int {
	return strings.Count(snippet, "\n") + 1
}

func TestExtract_NoOutline(t *testing.T) {
	doc := numberedDocument(10)

	for _, outline := range [][]SymbolNode{nil, {}} {
		ctx := Extract(doc, pos(5, 2), outline)

		assert.False(t, ctx.IsFunction)
		assert.Equal(t, "line 2\nline 3\nline 4\nline 5\nline 6\nline 7\nline 8", ctx.Snippet)
		assert.Equal(t, pos(3, 2), ctx.RelativeCursor)
		assert.Equal(t, 2, ctx.StartLine)
		assert.Equal(t, 8, ctx.EndLine)
		assert.Empty(t, ctx.SymbolName)
	}
}

func TestExtract_FunctionMatch(t *testing.T) {
	source := `package main

import "fmt"

func greet(name string) {
	fmt.Println("hello", name)
}

func main() {
	greet("world")
}`
	doc := document.New("/tmp/main.go", source)
	outline := []SymbolNode{
		{Name: "greet", Kind: SymbolKindFunction, Range: types.Range{Start: pos(4, 0), End: pos(6, 1)}},
		{Name: "main", Kind: SymbolKindFunction, Range: types.Range{Start: pos(8, 0), End: pos(10, 1)}},
	}

	ctx := Extract(doc, pos(5, 7), outline)

	require.True(t, ctx.IsFunction)
	assert.Equal(t, "func greet(name string) {\n\tfmt.Println(\"hello\", name)\n}", ctx.Snippet)
	assert.Equal(t, pos(1, 7), ctx.RelativeCursor)
	assert.Equal(t, "greet", ctx.SymbolName)
	assert.Equal(t, 4, ctx.StartLine)
	assert.Equal(t, 6, ctx.EndLine)

	ctx = Extract(doc, pos(9, 1), outline)
	require.True(t, ctx.IsFunction)
	assert.Equal(t, "main", ctx.SymbolName)
	assert.Equal(t, pos(1, 1), ctx.RelativeCursor)
}

func TestExtract_TopLevelStatement(t *testing.T) {
	doc := numberedDocument(20)
	outline := []SymbolNode{
		{Name: "f", Kind: SymbolKindFunction, Range: lines(10, 15)},
	}

	ctx := Extract(doc, pos(2, 0), outline)
	assert.False(t, ctx.IsFunction)
	assert.Equal(t, 0, ctx.StartLine)
	assert.Equal(t, 5, ctx.EndLine)
}

func TestExtract_SizeGuard(t *testing.T) {
	doc := numberedDocument(100)

	tests := []struct {
		name       string
		end        int
		isFunction bool
	}{
		{name: "Span of exactly 50 lines is kept", end: 60, isFunction: true},
		{name: "Span of 51 lines falls back", end: 61, isFunction: false},
		{name: "Very large function falls back", end: 99, isFunction: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outline := []SymbolNode{{Name: "big", Kind: SymbolKindFunction, Range: lines(10, tt.end)}}

			ctx := Extract(doc, pos(30, 4), outline)
			assert.Equal(t, tt.isFunction, ctx.IsFunction)

			if tt.isFunction {
				assert.Equal(t, pos(20, 4), ctx.RelativeCursor)
				assert.Equal(t, tt.end-10+1, lineCount(ctx.Snippet))
			} else {
				assert.Equal(t, "line 27\nline 28\nline 29\nline 30\nline 31\nline 32\nline 33", ctx.Snippet)
				assert.Equal(t, pos(3, 4), ctx.RelativeCursor)
			}
		})
	}
}

func TestExtract_OversizedMethodUsesWindow(t *testing.T) {
	doc := numberedDocument(200)
	outline := []SymbolNode{
		{
			Name: "C", Kind: SymbolKindClass, Range: lines(50, 190),
			Children: []SymbolNode{
				{Name: "huge", Kind: SymbolKindMethod, Range: lines(60, 180)},
			},
		},
	}

	ctx := Extract(doc, pos(100, 0), outline)
	assert.False(t, ctx.IsFunction)
	assert.Empty(t, ctx.SymbolName)
	assert.Equal(t, 97, ctx.StartLine)
	assert.Equal(t, 103, ctx.EndLine)
}

func TestExtract_WindowBoundaries(t *testing.T) {
	tests := []struct {
		name           string
		lineCount      int
		cursor         types.Position
		startLine      int
		endLine        int
		relativeCursor types.Position
	}{
		{name: "Document start", lineCount: 10, cursor: pos(0, 0), startLine: 0, endLine: 3, relativeCursor: pos(0, 0)},
		{name: "Second line", lineCount: 10, cursor: pos(1, 5), startLine: 0, endLine: 4, relativeCursor: pos(1, 5)},
		{name: "Document end", lineCount: 10, cursor: pos(9, 3), startLine: 6, endLine: 9, relativeCursor: pos(3, 3)},
		{name: "Single line document", lineCount: 1, cursor: pos(0, 2), startLine: 0, endLine: 0, relativeCursor: pos(0, 2)},
		{name: "Centre of long document", lineCount: 500, cursor: pos(250, 1), startLine: 247, endLine: 253, relativeCursor: pos(3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := numberedDocument(tt.lineCount)
			ctx := Extract(doc, tt.cursor, nil)

			assert.False(t, ctx.IsFunction)
			assert.Equal(t, tt.startLine, ctx.StartLine)
			assert.Equal(t, tt.endLine, ctx.EndLine)
			assert.Equal(t, tt.relativeCursor, ctx.RelativeCursor)
			assert.Equal(t, tt.endLine-tt.startLine+1, lineCount(ctx.Snippet))
			assert.True(t, strings.HasPrefix(ctx.Snippet, fmt.Sprintf("line %d", tt.startLine)))
			assert.True(t, strings.HasSuffix(ctx.Snippet, fmt.Sprintf("line %d", tt.endLine)))
		})
	}
}

func TestExtract_RelativeCursorWithinSnippet(t *testing.T) {
	doc := numberedDocument(120)
	outline := []SymbolNode{
		{
			Name: "C", Kind: SymbolKindClass, Range: lines(0, 40),
			Children: []SymbolNode{
				{Name: "m", Kind: SymbolKindMethod, Range: lines(10, 20)},
			},
		},
		{Name: "f", Kind: SymbolKindFunction, Range: lines(45, 60)},
		{Name: "g", Kind: SymbolKindFunction, Range: lines(62, 119)},
	}

	for line := 0; line < doc.LineCount(); line++ {
		cursor := pos(line, 0)
		ctx := Extract(doc, cursor, outline)

		assert.Equal(t, line-ctx.StartLine, ctx.RelativeCursor.Line, "line %d", line)
		assert.GreaterOrEqual(t, ctx.RelativeCursor.Line, 0, "line %d", line)
		assert.Less(t, ctx.RelativeCursor.Line, lineCount(ctx.Snippet), "line %d", line)
	}
}

func TestExtract_CRLFDocument(t *testing.T) {
	doc := document.New("/tmp/crlf.go", "func a() {\r\n\tx := 1\r\n}\r\n")
	outline := []SymbolNode{
		{Name: "a", Kind: SymbolKindFunction, Range: types.Range{Start: pos(0, 0), End: pos(2, 1)}},
	}

	ctx := Extract(doc, pos(1, 2), outline)
	assert.True(t, ctx.IsFunction)
	assert.Equal(t, "func a() {\r\n\tx := 1\r\n}", ctx.Snippet)

	ctx = Extract(doc, pos(1, 2), nil)
	assert.False(t, ctx.IsFunction)
	assert.Equal(t, "func a() {\r\n\tx := 1\r\n}\r\n", ctx.Snippet)
	assert.Equal(t, pos(1, 2), ctx.RelativeCursor)
}

func TestFindEnclosing(t *testing.T) {
	outline := []SymbolNode{
		{Name: "version", Kind: SymbolKindVariable, Range: lines(0, 0)},
		{
			Name: "C", Kind: SymbolKindClass, Range: lines(2, 40),
			Children: []SymbolNode{
				{Name: "field", Kind: SymbolKindVariable, Range: lines(3, 3)},
				{
					Name: "m", Kind: SymbolKindMethod, Range: lines(10, 20),
					Children: []SymbolNode{
						{Name: "helper", Kind: SymbolKindFunction, Range: lines(12, 14)},
						{Name: "local", Kind: SymbolKindVariable, Range: lines(16, 16)},
					},
				},
			},
		},
		{Name: "top", Kind: SymbolKindFunction, Range: lines(42, 50)},
		{Name: "Other", Kind: SymbolKindOther, Range: lines(52, 60)},
	}

	tests := []struct {
		name     string
		cursor   types.Position
		expected string
	}{
		{name: "Method inside class wins over class", cursor: pos(15, 0), expected: "m"},
		{name: "Nested function wins over method", cursor: pos(13, 2), expected: "helper"},
		{name: "Variable inside method resolves to method", cursor: pos(16, 0), expected: "m"},
		{name: "Class body outside methods has no match", cursor: pos(30, 0), expected: ""},
		{name: "Class field has no match", cursor: pos(3, 0), expected: ""},
		{name: "Top level variable has no match", cursor: pos(0, 0), expected: ""},
		{name: "Top level function", cursor: pos(45, 3), expected: "top"},
		{name: "Other kind has no match", cursor: pos(55, 0), expected: ""},
		{name: "Between symbols", cursor: pos(41, 0), expected: ""},
		{name: "Start boundary is inclusive", cursor: pos(10, 0), expected: "m"},
		{name: "End boundary is inclusive", cursor: pos(20, 1), expected: "m"},
		{name: "Past end character is outside", cursor: pos(50, 2), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := FindEnclosing(outline, tt.cursor)
			if tt.expected == "" {
				assert.Nil(t, match)
				return
			}
			require.NotNil(t, match)
			assert.Equal(t, tt.expected, match.Name)
		})
	}
}

func TestFindEnclosing_ContinuesPastNonFunctionSiblings(t *testing.T) {
	// An overlapping non-function node must not hide a later sibling
	outline := []SymbolNode{
		{Name: "decorator", Kind: SymbolKindVariable, Range: lines(5, 9)},
		{Name: "handler", Kind: SymbolKindFunction, Range: lines(5, 12)},
	}

	match := FindEnclosing(outline, pos(7, 0))
	require.NotNil(t, match)
	assert.Equal(t, "handler", match.Name)
}

func TestFindEnclosing_NilOutline(t *testing.T) {
	assert.Nil(t, FindEnclosing(nil, pos(0, 0)))
}

func TestNestedClassExample(t *testing.T) {
	doc := numberedDocument(41)
	outline := []SymbolNode{
		{
			Name: "C", Kind: SymbolKindClass, Range: lines(0, 40),
			Children: []SymbolNode{
				{Name: "m", Kind: SymbolKindMethod, Range: lines(10, 20)},
			},
		},
	}

	ctx := Extract(doc, pos(15, 0), outline)
	require.True(t, ctx.IsFunction)
	assert.Equal(t, "m", ctx.SymbolName)
	assert.Equal(t, pos(5, 0), ctx.RelativeCursor)
	assert.Equal(t, doc.TextInRange(lines(10, 20)), ctx.Snippet)
}

func TestSymbolKind_IsFunctionLike(t *testing.T) {
	assert.True(t, SymbolKindFunction.IsFunctionLike())
	assert.True(t, SymbolKindMethod.IsFunctionLike())
	assert.False(t, SymbolKindClass.IsFunctionLike())
	assert.False(t, SymbolKindVariable.IsFunctionLike())
	assert.False(t, SymbolKindOther.IsFunctionLike())
}
