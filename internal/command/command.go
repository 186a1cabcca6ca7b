// Package command implements the vooshi.sendSnippet command and the host
// that registers it
package command

import (
	"context"
	"log/slog"

	"github.com/averycrespi/vooshi/internal/document"
	"github.com/averycrespi/vooshi/internal/extractor"
	"github.com/averycrespi/vooshi/internal/outline"
	"github.com/averycrespi/vooshi/pkg/types"
)

// PollingMessage is shown every time the command runs
const PollingMessage = "Vooshi: polling"

// Sender delivers an extracted context without blocking.
// *reporter.Reporter satisfies it
type Sender interface {
	Report(filename string, ctx extractor.ExtractedContext)
}

// SendSnippet extracts the code around the cursor of the active editor and
// hands it to the sender
type SendSnippet struct {
	editor   Editor
	outline  outline.Provider
	sender   Sender
	notifier Notifier
}

// NewSendSnippet creates the command. A nil notifier logs instead
func NewSendSnippet(editor Editor, provider outline.Provider, sender Sender, notifier Notifier) *SendSnippet {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &SendSnippet{
		editor:   editor,
		outline:  provider,
		sender:   sender,
		notifier: notifier,
	}
}

// Run executes the command. It returns the context that was queued for
// delivery, or false when no editor is active. Delivery happens in the
// background and its failures are only logged
func (c *SendSnippet) Run(ctx context.Context) (extractor.ExtractedContext, bool) {
	c.notifier.Notify(PollingMessage)

	doc, cursor, ok := c.editor.Active()
	if !ok {
		slog.Debug("No active editor, nothing to send")
		return extractor.ExtractedContext{}, false
	}

	extracted := ExtractContext(ctx, c.outline, doc, cursor)
	c.sender.Report(doc.Filename, extracted)

	slog.Info("Snippet queued",
		"filename", doc.Filename,
		"is_function", extracted.IsFunction,
		"symbol", extracted.SymbolName,
		"start_line", extracted.StartLine,
		"end_line", extracted.EndLine,
		"relative_line", extracted.RelativeCursor.Line,
		"relative_character", extracted.RelativeCursor.Character,
	)
	return extracted, true
}

// ExtractContext clamps the cursor to the document, asks the provider for an
// outline and extracts the enclosing function or the line window. A provider
// failure is logged and treated as an empty outline
func ExtractContext(ctx context.Context, provider outline.Provider, doc *document.Document, cursor types.Position) extractor.ExtractedContext {
	cursor = doc.ClampPosition(cursor)

	var symbols []extractor.SymbolNode
	if provider != nil {
		var err error
		symbols, err = provider.DocumentSymbols(ctx, doc)
		if err != nil {
			slog.Warn("Outline unavailable, using line window", "filename", doc.Filename, "error", err)
			symbols = nil
		}
	}

	return extractor.Extract(doc, cursor, symbols)
}
