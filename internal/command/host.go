package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SendSnippetCommand is the id the host registers the command under
const SendSnippetCommand = "vooshi.sendSnippet"

// DefaultPollInterval is used when the host is given no interval
const DefaultPollInterval = 5 * time.Second

var (
	// ErrUnknownCommand is returned by Execute for unregistered ids
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNotActive is returned by Execute before Activate or after Deactivate
	ErrNotActive = errors.New("host is not active")
)

// Drainer waits for background work to finish. *reporter.Reporter satisfies it
type Drainer interface {
	Close(ctx context.Context) error
}

// Host owns the command registry and the recurring timer for the lifetime of
// an activation
type Host struct {
	sendSnippet *SendSnippet
	drainer     Drainer
	interval    time.Duration

	// onTick runs on every timer tick; it does nothing by default
	onTick func()

	mu       sync.Mutex
	commands map[string]func(context.Context) any
	stop     chan struct{}
	stopped  chan struct{}

	// running counts Execute calls; Add only happens under mu while active
	running sync.WaitGroup
}

// NewHost creates an inactive host. drainer may be nil
func NewHost(sendSnippet *SendSnippet, drainer Drainer, interval time.Duration) *Host {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Host{
		sendSnippet: sendSnippet,
		drainer:     drainer,
		interval:    interval,
		onTick:      func() {},
	}
}

// Activate registers the commands and starts the timer. Activating an
// active host is a no-op
func (h *Host) Activate(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.commands != nil {
		return nil
	}

	h.commands = map[string]func(context.Context) any{
		SendSnippetCommand: func(ctx context.Context) any {
			extracted, ok := h.sendSnippet.Run(ctx)
			if !ok {
				return nil
			}
			return &extracted
		},
	}

	h.stop = make(chan struct{})
	h.stopped = make(chan struct{})
	go h.runTimer(h.stop, h.stopped)

	slog.Info("Vooshi is now active", "interval", h.interval.String())
	return nil
}

func (h *Host) runTimer(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.onTick()
		case <-stop:
			return
		}
	}
}

// Execute runs a registered command on the caller's goroutine and returns
// its result. vooshi.sendSnippet returns the queued *extractor.ExtractedContext,
// or nil when no editor was active
func (h *Host) Execute(ctx context.Context, name string) (any, error) {
	h.mu.Lock()
	if h.commands == nil {
		h.mu.Unlock()
		return nil, ErrNotActive
	}
	cmd, ok := h.commands[name]
	if !ok {
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	h.running.Add(1)
	h.mu.Unlock()
	defer h.running.Done()

	slog.Debug("Executing command", "command", name)
	return cmd(ctx), nil
}

// Commands lists the registered command ids
func (h *Host) Commands() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	return names
}

// Deactivate stops the timer, unregisters the commands, waits for running
// commands and then for in-flight sends until ctx expires
func (h *Host) Deactivate(ctx context.Context) error {
	h.mu.Lock()
	if h.commands == nil {
		h.mu.Unlock()
		return nil
	}
	close(h.stop)
	stopped := h.stopped
	h.commands = nil
	h.mu.Unlock()

	<-stopped
	slog.Debug("Host timer stopped")

	done := make(chan struct{})
	go func() {
		h.running.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("gave up waiting for running commands: %w", ctx.Err())
	}

	if h.drainer == nil {
		return nil
	}
	if err := h.drainer.Close(ctx); err != nil {
		return fmt.Errorf("failed to drain in-flight sends: %w", err)
	}
	return nil
}
