package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/refverify/engine/internal/domain"
)

// APIKeyRepository is the pgx-backed store for issued service API keys —
// the only feature in this system that requires Postgres; the engine
// itself runs with no database at all.
type APIKeyRepository struct {
	db *pgxpool.Pool
}

// NewAPIKeyRepository wraps an existing connection pool.
func NewAPIKeyRepository(db *pgxpool.Pool) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

const apiKeyColumns = `id, label, key_hash, revoked, created_at, last_used_at`

func scanAPIKey(row pgx.Row) (*domain.APIKey, error) {
	key := &domain.APIKey{}
	err := row.Scan(&key.ID, &key.Label, &key.KeyHash, &key.Revoked, &key.CreatedAt, &key.LastUsedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (r *APIKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	if key.ID == uuid.Nil {
		key.ID = uuid.New()
	}
	query := `
		INSERT INTO api_keys (id, label, key_hash, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, key.ID, key.Label, key.KeyHash, key.Revoked, key.CreatedAt)
	return err
}

func (r *APIKeyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = $1`
	return scanAPIKey(r.db.QueryRow(ctx, query, id))
}

func (r *APIKeyRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE api_keys SET revoked = true WHERE id = $1`, id)
	return err
}

func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE api_keys SET last_used_at = now() WHERE id = $1`, id)
	return err
}

func (r *APIKeyRepository) List(ctx context.Context) ([]*domain.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*domain.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
