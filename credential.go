// Package install defines the domain types shared across the installation
// service: the per-workspace credential that a completed OAuth handshake
// produces, and the store that holds it.
package install

import (
	"context"
	"errors"
)

// Credential is the durable result of installing the app into a Slack
// workspace: the workspace that installed it and the access token Slack
// issued for it. There is at most one Credential per workspace at any time.
type Credential struct {
	WorkspaceID string `json:"workspace_id"`
	AccessToken string `json:"access_token"`
}

// ErrCredentialNotFound is returned by CredentialStore.Get when no credential
// exists for the requested workspace.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialStore persists workspace credentials, keyed by workspace ID.
type CredentialStore interface {
	// Upsert inserts a credential for the workspace, or replaces its access
	// token if one already exists, as a single atomic operation: concurrent
	// upserts for the same workspace settle last-writer-wins without ever
	// leaving a duplicate or partially-written record.
	Upsert(ctx context.Context, workspaceID, accessToken string) error

	// Get returns the credential for the workspace, or ErrCredentialNotFound.
	Get(ctx context.Context, workspaceID string) (*Credential, error)
}
