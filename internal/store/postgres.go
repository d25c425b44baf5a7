// Package store provides the CredentialStore implementations: Postgres for
// deployments and an in-memory equivalent for tests and local development.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reddit-bot/install"
)

//go:embed schema.sql
var schema string

// Postgres is a CredentialStore backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseUrl string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// EnsureSchema applies the embedded schema; it's idempotent and runs on every
// startup.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Upsert inserts or replaces the workspace's credential as a single
// statement, so racing callbacks for the same workspace settle on whichever
// write lands last without ever producing a duplicate or torn row.
func (p *Postgres) Upsert(ctx context.Context, workspaceID, accessToken string) error {
	const q = `
INSERT INTO credential (workspace_id, access_token)
VALUES ($1, $2)
ON CONFLICT (workspace_id)
DO UPDATE SET access_token = EXCLUDED.access_token`
	if _, err := p.pool.Exec(ctx, q, workspaceID, accessToken); err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, workspaceID string) (*install.Credential, error) {
	const q = `SELECT workspace_id, access_token FROM credential WHERE workspace_id = $1`
	var c install.Credential
	err := p.pool.QueryRow(ctx, q, workspaceID).Scan(&c.WorkspaceID, &c.AccessToken)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, install.ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &c, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}
