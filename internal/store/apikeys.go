package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dipansrimany2006/mlink-client/internal/model"
)

const apiKeyColumns = `id, key, name, owner_address, is_active, last_used_at, created_at, updated_at`

func (p *Postgres) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO api_keys (key, name, owner_address, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, key.Key, key.Name, key.OwnerAddress, key.IsActive).
		Scan(&key.ID, &key.CreatedAt, &key.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert api_key: %w", err)
	}
	return nil
}

func (p *Postgres) GetAPIKeyByKey(ctx context.Context, rawKey string) (*model.APIKey, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE key = $1`, rawKey)
	if err != nil {
		return nil, fmt.Errorf("query api_key: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, pgx.ErrNoRows
	}
	return scanAPIKeyFromRow(rows)
}

func (p *Postgres) ListAPIKeysByOwner(ctx context.Context, ownerAddress string) ([]*model.APIKey, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+apiKeyColumns+` FROM api_keys WHERE owner_address = $1 ORDER BY created_at DESC
	`, ownerAddress)
	if err != nil {
		return nil, fmt.Errorf("list api_keys: %w", err)
	}
	defer rows.Close()

	keys := []*model.APIKey{}
	for rows.Next() {
		key, err := scanAPIKeyFromRow(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (p *Postgres) CountAPIKeysByOwner(ctx context.Context, ownerAddress string) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM api_keys WHERE owner_address = $1`, ownerAddress).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count api_keys: %w", err)
	}
	return count, nil
}

func (p *Postgres) TouchAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := p.pool.Exec(ctx, `UPDATE api_keys SET last_used_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch api_key last_used_at: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteAPIKey(ctx context.Context, id uuid.UUID, ownerAddress string) error {
	tag, err := p.pool.Exec(ctx, `
		DELETE FROM api_keys WHERE id = $1 AND owner_address = $2
	`, id, ownerAddress)
	if err != nil {
		return fmt.Errorf("delete api_key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) SetAPIKeyActive(ctx context.Context, id uuid.UUID, ownerAddress string, active bool) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE api_keys SET is_active = $1, updated_at = NOW() WHERE id = $2 AND owner_address = $3
	`, active, id, ownerAddress)
	if err != nil {
		return fmt.Errorf("set api_key active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAPIKeyFromRow(rows pgx.Rows) (*model.APIKey, error) {
	var key model.APIKey
	err := rows.Scan(
		&key.ID, &key.Key, &key.Name, &key.OwnerAddress,
		&key.IsActive, &key.LastUsedAt, &key.CreatedAt, &key.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan api_key: %w", err)
	}
	return &key, nil
}
