// Package outline produces document symbol outlines for the extractor
package outline

import (
	"context"
	"fmt"

	"github.com/averycrespi/vooshi/internal/document"
	"github.com/averycrespi/vooshi/internal/extractor"
)

// Provider names accepted in configuration
const (
	ProviderLSP        = "lsp"
	ProviderTreeSitter = "treesitter"
	ProviderNone       = "none"
)

// Provider returns the symbol outline of a document
type Provider interface {
	DocumentSymbols(ctx context.Context, doc *document.Document) ([]extractor.SymbolNode, error)
}

// NoneProvider never finds symbols, so every extraction uses the line window
type NoneProvider struct{}

func (NoneProvider) DocumentSymbols(ctx context.Context, doc *document.Document) ([]extractor.SymbolNode, error) {
	return nil, nil
}

// NewProvider builds the named provider. clients is only used by the lsp provider
func NewProvider(name string, clients ClientSource) (Provider, error) {
	if err := ValidProvider(name); err != nil {
		return nil, err
	}

	switch name {
	case ProviderLSP:
		return NewLSPProvider(clients), nil
	case ProviderTreeSitter:
		return NewTreeSitterProvider(), nil
	default:
		return NoneProvider{}, nil
	}
}

// ValidProvider reports whether name is a known provider
func ValidProvider(name string) error {
	switch name {
	case ProviderLSP, ProviderTreeSitter, ProviderNone:
		return nil
	default:
		return fmt.Errorf("unknown outline provider %q (expected %s, %s or %s)",
			name, ProviderLSP, ProviderTreeSitter, ProviderNone)
	}
}
