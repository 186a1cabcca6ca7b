package extractor

import "github.com/averycrespi/vooshi/pkg/types"

// SymbolKind is the category of a named code region
type SymbolKind string

const (
	SymbolKindFunction SymbolKind = "function"
	SymbolKindMethod   SymbolKind = "method"
	SymbolKindClass    SymbolKind = "class"
	SymbolKindVariable SymbolKind = "variable"
	SymbolKindOther    SymbolKind = "other"
)

// IsFunctionLike reports whether regions of this kind can be extracted as a function body
func (k SymbolKind) IsFunctionLike() bool {
	return k == SymbolKindFunction || k == SymbolKindMethod
}

// SymbolNode is a node of a document outline. Children lie within the parent's range
type SymbolNode struct {
	Name     string       `json:"name"`
	Kind     SymbolKind   `json:"kind"`
	Range    types.Range  `json:"range"`
	Children []SymbolNode `json:"children,omitempty"`
}
