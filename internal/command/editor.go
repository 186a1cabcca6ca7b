package command

import (
	"log/slog"
	"sync"

	"github.com/averycrespi/vooshi/internal/document"
	"github.com/averycrespi/vooshi/pkg/types"
)

// Editor exposes the document and cursor of the active editor.
// ok is false when nothing is open
type Editor interface {
	Active() (doc *document.Document, cursor types.Position, ok bool)
}

// Notifier shows a transient message to the user
type Notifier interface {
	Notify(message string)
}

// ActiveEditor is an Editor whose document and cursor are set by the caller.
// The zero value has no active document
type ActiveEditor struct {
	mu     sync.RWMutex
	doc    *document.Document
	cursor types.Position
}

// Open makes doc the active document with the cursor at pos
func (e *ActiveEditor) Open(doc *document.Document, pos types.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc = doc
	e.cursor = pos
}

// Close leaves no active document
func (e *ActiveEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc = nil
	e.cursor = types.Position{}
}

func (e *ActiveEditor) Active() (*document.Document, types.Position, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc, e.cursor, e.doc != nil
}

// LogNotifier writes notifications to the default logger
type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	slog.Info(message)
}
