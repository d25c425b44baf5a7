package store

import (
	"context"
	"sync"

	"github.com/reddit-bot/install"
)

// Memory is an in-process CredentialStore with the same replace-or-insert
// semantics as Postgres. It's used in tests, and by the server when no
// DATABASE_URL is configured.
type Memory struct {
	mu          sync.Mutex
	credentials map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		credentials: make(map[string]string),
	}
}

func (m *Memory) Upsert(ctx context.Context, workspaceID, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credentials[workspaceID] = accessToken
	return nil
}

func (m *Memory) Get(ctx context.Context, workspaceID string) (*install.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	accessToken, ok := m.credentials[workspaceID]
	if !ok {
		return nil, install.ErrCredentialNotFound
	}
	return &install.Credential{
		WorkspaceID: workspaceID,
		AccessToken: accessToken,
	}, nil
}

// Len reports how many workspaces currently have a stored credential.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.credentials)
}
