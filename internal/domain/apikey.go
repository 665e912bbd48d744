package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// APIKey is an issued service credential gating the verification HTTP API.
// Callers here are systems (batch jobs, document pipelines) rather than
// humans, so a key carries a label instead of an email/password.
type APIKey struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label"`
	KeyHash    string    `json:"-"`
	Revoked    bool      `json:"revoked"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// APIKeyRepository persists issued service keys. The Postgres
// implementation lives in internal/repository/postgres; this interface is
// optional infrastructure — when no database is configured, the server
// falls back to a single static bootstrap token instead of issuing keys.
type APIKeyRepository interface {
	Create(ctx context.Context, key *APIKey) error
	GetByID(ctx context.Context, id uuid.UUID) (*APIKey, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*APIKey, error)
}
