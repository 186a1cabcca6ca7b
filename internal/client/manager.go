package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/averycrespi/vooshi/pkg/types"
)

// Manager manages the language server client lifecycle.
// The server is started on first use and shared until Shutdown
type Manager struct {
	client        types.Client
	newClient     func() types.Client
	workspaceRoot string
	initialized   bool
	mu            sync.Mutex
}

// NewManager creates a new language server manager
func NewManager(command string, args []string, workspaceRoot string) *Manager {
	return &Manager{
		newClient: func() types.Client {
			return NewLanguageServerClient(command, args)
		},
		workspaceRoot: workspaceRoot,
	}
}

// GetClient returns the running client, starting it if needed
func (m *Manager) GetClient(ctx context.Context) (types.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return m.client, nil
	}

	slog.Debug("Starting language server client", "workspace_root", m.workspaceRoot)

	c := m.newClient()
	if err := c.Start(ctx, m.workspaceRoot); err != nil {
		_ = c.Stop(ctx)
		return nil, fmt.Errorf("failed to start language server client: %w", err)
	}

	m.client = c
	m.initialized = true
	return m.client, nil
}

// Shutdown stops the client if it was started
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}

	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to shutdown language server client: %w", err)
	}

	m.initialized = false
	m.client = nil

	return nil
}

// IsInitialized returns whether the client is running
func (m *Manager) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.initialized
}
