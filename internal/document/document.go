// Package document provides line-indexed access to the text of a source file
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/averycrespi/vooshi/pkg/types"
)

// Document is a snapshot of a source file's text
type Document struct {
	Filename string
	URI      string
	Text     string
	lines    []string
}

// New creates a document from in-memory text
func New(filename string, text string) *Document {
	return &Document{
		Filename: filename,
		URI:      PathToUri(filename),
		Text:     text,
		lines:    strings.Split(text, "\n"),
	}
}

// Load reads a document from disk
func Load(path string) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", absPath, err)
	}

	return New(absPath, string(data)), nil
}

// LineCount returns the number of lines; an empty document has one empty line
func (d *Document) LineCount() int {
	return len(d.lines)
}

// LastLine returns the index of the last line
func (d *Document) LastLine() int {
	return len(d.lines) - 1
}

// LineAt returns the text of a line without its newline. A CRLF line keeps its \r
func (d *Document) LineAt(line int) string {
	if line < 0 || line >= len(d.lines) {
		return ""
	}
	return d.lines[line]
}

// content is the line text columns can address, without a trailing \r
func (d *Document) content(line int) string {
	return strings.TrimSuffix(d.LineAt(line), "\r")
}

// ClampPosition moves pos onto the nearest valid position in the document
func (d *Document) ClampPosition(pos types.Position) types.Position {
	pos.Line = clamp(pos.Line, 0, d.LastLine())
	line := d.content(pos.Line)
	pos.Character = clamp(pos.Character, 0, len(line))
	// Never split a multi-byte rune
	for pos.Character < len(line) && !utf8.RuneStart(line[pos.Character]) {
		pos.Character--
	}
	return pos
}

// FromUTF16 converts a position whose column counts UTF-16 code units, as
// LSP servers report by default, to a byte column
func (d *Document) FromUTF16(pos types.Position) types.Position {
	line := d.content(pos.Line)
	units, offset := 0, 0
	for offset < len(line) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(line[offset:])
		units++
		if r >= 0x10000 {
			units++
		}
		offset += size
	}
	if units < pos.Character {
		offset += pos.Character - units
	}
	pos.Character = offset
	return pos
}

// TextInRange returns the text between two positions, clamped to the document.
// Line endings inside the range are kept as written
func (d *Document) TextInRange(r types.Range) string {
	start := d.ClampPosition(r.Start)
	end := d.ClampPosition(r.End)
	if end.Before(start) {
		return ""
	}

	if start.Line == end.Line {
		return d.content(start.Line)[start.Character:end.Character]
	}

	var b strings.Builder
	b.WriteString(d.LineAt(start.Line)[start.Character:])
	for line := start.Line + 1; line < end.Line; line++ {
		b.WriteString("\n")
		b.WriteString(d.LineAt(line))
	}
	b.WriteString("\n")
	b.WriteString(d.content(end.Line)[:end.Character])
	return b.String()
}

// LanguageID returns the LSP language identifier for the document's extension
func (d *Document) LanguageID() string {
	switch strings.ToLower(filepath.Ext(d.Filename)) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".jsx":
		return "javascriptreact"
	case ".ts", ".mts", ".cts":
		return "typescript"
	case ".tsx":
		return "typescriptreact"
	default:
		return "plaintext"
	}
}

// PathToUri converts a file path to a file URI
func PathToUri(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + filepath.ToSlash(path)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
