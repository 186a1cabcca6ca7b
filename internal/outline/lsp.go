package outline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/averycrespi/vooshi/internal/document"
	"github.com/averycrespi/vooshi/internal/extractor"
	"github.com/averycrespi/vooshi/pkg/types"
)

// ClientSource hands out a started language server client
type ClientSource interface {
	GetClient(ctx context.Context) (types.Client, error)
}

// encodingReporter is implemented by clients that negotiate a position encoding
type encodingReporter interface {
	PositionEncoding() string
}

// LSPProvider asks a language server for textDocument/documentSymbol
type LSPProvider struct {
	clients ClientSource
}

// NewLSPProvider creates a provider backed by the given client source
func NewLSPProvider(clients ClientSource) *LSPProvider {
	return &LSPProvider{clients: clients}
}

func (p *LSPProvider) DocumentSymbols(ctx context.Context, doc *document.Document) ([]extractor.SymbolNode, error) {
	client, err := p.clients.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	// Send the text we are extracting from so ranges line up with it
	if err := client.OpenDocument(ctx, doc.URI, doc.LanguageID(), doc.Text); err != nil {
		return nil, err
	}
	defer func() {
		if err := client.CloseDocument(ctx, doc.URI); err != nil {
			slog.Debug("Failed to close document", "uri", doc.URI, "error", err)
		}
	}()

	symbols, err := client.GetDocumentSymbols(ctx, doc.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to get outline for %s: %w", doc.Filename, err)
	}

	nodes := convertDocumentSymbols(symbols)
	if reporter, ok := client.(encodingReporter); ok && reporter.PositionEncoding() != "utf-8" {
		toByteColumns(doc, nodes)
	}
	return nodes, nil
}

// toByteColumns rewrites UTF-16 columns as byte columns in place
func toByteColumns(doc *document.Document, nodes []extractor.SymbolNode) {
	for i := range nodes {
		nodes[i].Range.Start = doc.FromUTF16(nodes[i].Range.Start)
		nodes[i].Range.End = doc.FromUTF16(nodes[i].Range.End)
		toByteColumns(doc, nodes[i].Children)
	}
}

// convertDocumentSymbols converts LSP symbols to outline nodes recursively
func convertDocumentSymbols(symbols []types.DocumentSymbol) []extractor.SymbolNode {
	if len(symbols) == 0 {
		return nil
	}

	nodes := make([]extractor.SymbolNode, len(symbols))
	for i, sym := range symbols {
		nodes[i] = extractor.SymbolNode{
			Name:     sym.Name,
			Kind:     NewSymbolKind(sym.Kind),
			Range:    sym.Range,
			Children: convertDocumentSymbols(sym.Children),
		}
	}
	return nodes
}
