package outline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/averycrespi/vooshi/internal/document"
	"github.com/averycrespi/vooshi/internal/extractor"
	"github.com/averycrespi/vooshi/pkg/types"
)

// treeSitterKinds maps grammar node types to outline kinds. Function-like
// nodes nested directly in a class become methods
var treeSitterKinds = map[string]extractor.SymbolKind{
	// Go
	"function_declaration": extractor.SymbolKindFunction,
	"method_declaration":   extractor.SymbolKindMethod,
	"func_literal":         extractor.SymbolKindFunction,
	"type_spec":            extractor.SymbolKindClass,

	// Python
	"function_definition": extractor.SymbolKindFunction,
	"class_definition":    extractor.SymbolKindClass,

	// JavaScript and TypeScript
	"generator_function_declaration": extractor.SymbolKindFunction,
	"function_expression":            extractor.SymbolKindFunction,
	"function":                       extractor.SymbolKindFunction,
	"arrow_function":                 extractor.SymbolKindFunction,
	"method_definition":              extractor.SymbolKindMethod,
	"class_declaration":              extractor.SymbolKindClass,
	"class":                          extractor.SymbolKindClass,
	"interface_declaration":          extractor.SymbolKindClass,
}

// languageForExt returns the tree-sitter grammar for a file extension, or nil
func languageForExt(ext string) *sitter.Language {
	switch strings.ToLower(ext) {
	case ".go":
		return golang.GetLanguage()
	case ".py":
		return python.GetLanguage()
	case ".js", ".mjs", ".cjs", ".jsx":
		return javascript.GetLanguage()
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return nil
	}
}

// TreeSitterProvider builds outlines by parsing the document locally
type TreeSitterProvider struct{}

// NewTreeSitterProvider creates a tree-sitter outline provider
func NewTreeSitterProvider() *TreeSitterProvider {
	return &TreeSitterProvider{}
}

// supported reports whether a grammar exists for the file
func supported(filename string) bool {
	return languageForExt(filepath.Ext(filename)) != nil
}

func (p *TreeSitterProvider) DocumentSymbols(ctx context.Context, doc *document.Document) ([]extractor.SymbolNode, error) {
	if !supported(doc.Filename) {
		slog.Debug("No tree-sitter grammar for document", "filename", doc.Filename)
		return nil, nil
	}
	lang := languageForExt(filepath.Ext(doc.Filename))

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	src := []byte(doc.Text)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", doc.Filename, err)
	}
	defer tree.Close()

	symbols := collectSymbols(tree.RootNode(), src, false)
	slog.Debug("Parsed document outline", "filename", doc.Filename, "count", len(symbols))
	return symbols, nil
}

// collectSymbols returns the outline nodes below n. Nodes that are not
// symbols are flattened so their symbol descendants attach to the nearest
// symbol ancestor
func collectSymbols(n *sitter.Node, src []byte, inClass bool) []extractor.SymbolNode {
	var symbols []extractor.SymbolNode

	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}

		kind, ok := treeSitterKinds[child.Type()]
		if !ok {
			symbols = append(symbols, collectSymbols(child, src, inClass)...)
			continue
		}

		if inClass && kind == extractor.SymbolKindFunction {
			kind = extractor.SymbolKindMethod
		}

		symbols = append(symbols, extractor.SymbolNode{
			Name:     symbolName(child, src),
			Kind:     kind,
			Range:    nodeRange(child),
			Children: collectSymbols(child, src, kind == extractor.SymbolKindClass),
		})
	}

	return symbols
}

// symbolName prefers the node's name field, then the declarator that binds it
func symbolName(n *sitter.Node, src []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}

	if parent := n.Parent(); parent != nil {
		switch parent.Type() {
		case "variable_declarator", "pair", "assignment_expression", "public_field_definition":
			for _, field := range []string{"name", "key", "left"} {
				if name := parent.ChildByFieldName(field); name != nil {
					return name.Content(src)
				}
			}
		}
	}

	return "<anonymous>"
}

func nodeRange(n *sitter.Node) types.Range {
	start := n.StartPoint()
	end := n.EndPoint()
	return types.Range{
		Start: types.Position{Line: int(start.Row), Character: int(start.Column)},
		End:   types.Position{Line: int(end.Row), Character: int(end.Column)},
	}
}
