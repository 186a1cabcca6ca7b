package outline

import "github.com/averycrespi/vooshi/internal/extractor"

// LSP symbol kinds, based on protocol specification
// See: https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#symbolKind
const (
	LSPSymbolKindClass       = 5
	LSPSymbolKindMethod      = 6
	LSPSymbolKindProperty    = 7
	LSPSymbolKindField       = 8
	LSPSymbolKindConstructor = 9
	LSPSymbolKindInterface   = 11
	LSPSymbolKindFunction    = 12
	LSPSymbolKindVariable    = 13
	LSPSymbolKindConstant    = 14
	LSPSymbolKindStruct      = 23
)

var symbolKindMap = map[int]extractor.SymbolKind{
	LSPSymbolKindClass:       extractor.SymbolKindClass,
	LSPSymbolKindMethod:      extractor.SymbolKindMethod,
	LSPSymbolKindProperty:    extractor.SymbolKindVariable,
	LSPSymbolKindField:       extractor.SymbolKindVariable,
	LSPSymbolKindConstructor: extractor.SymbolKindMethod,
	LSPSymbolKindInterface:   extractor.SymbolKindClass,
	LSPSymbolKindFunction:    extractor.SymbolKindFunction,
	LSPSymbolKindVariable:    extractor.SymbolKindVariable,
	LSPSymbolKindConstant:    extractor.SymbolKindVariable,
	LSPSymbolKindStruct:      extractor.SymbolKindClass,
}

// NewSymbolKind returns the outline kind for a given LSP symbol kind
func NewSymbolKind(kind int) extractor.SymbolKind {
	symbolKind, ok := symbolKindMap[kind]
	if !ok {
		return extractor.SymbolKindOther
	}
	return symbolKind
}
