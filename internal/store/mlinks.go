package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dipansrimany2006/mlink-client/internal/model"
)

const mlinkColumns = `id, mlink_id, action_url, name, description, icon, owner_address,
	api_key_id, tags, status, status_reason, status_updated_at, status_updated_by,
	created_at, updated_at`

func (p *Postgres) CreateMLink(ctx context.Context, mlink *model.MLink) error {
	tags, err := json.Marshal(model.TruncateTags(mlink.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	err = p.pool.QueryRow(ctx, `
		INSERT INTO mlinks (mlink_id, action_url, name, description, icon, owner_address, api_key_id, tags, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`,
		mlink.MLinkID, mlink.ActionURL, mlink.Name, mlink.Description, mlink.Icon,
		mlink.OwnerAddress, mlink.APIKeyID, tags, mlink.Status,
	).Scan(&mlink.ID, &mlink.CreatedAt, &mlink.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateActionURL
		}
		return fmt.Errorf("insert mlink: %w", err)
	}
	return nil
}

func (p *Postgres) GetMLinkByMLinkID(ctx context.Context, mlinkID string) (*model.MLink, error) {
	return p.scanMLink(ctx, `SELECT `+mlinkColumns+` FROM mlinks WHERE mlink_id = $1`, mlinkID)
}

func (p *Postgres) GetMLinkByActionURL(ctx context.Context, actionURL string) (*model.MLink, error) {
	return p.scanMLink(ctx, `SELECT `+mlinkColumns+` FROM mlinks WHERE action_url = $1`, actionURL)
}

func (p *Postgres) ListPublicMLinks(ctx context.Context, filters PublicFilters) ([]*model.MLink, int, error) {
	where := []string{"status = 'approved'"}
	args := []interface{}{}
	argIdx := 1

	if filters.Tag != "" {
		where = append(where, fmt.Sprintf("tags ? $%d", argIdx))
		args = append(args, filters.Tag)
		argIdx++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filters.Search+"%")
		argIdx++
	}

	return p.listMLinks(ctx, strings.Join(where, " AND "), args, argIdx, filters.Page, filters.Limit)
}

func (p *Postgres) ListMLinksByOwner(ctx context.Context, ownerAddress string) ([]*model.MLink, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+mlinkColumns+` FROM mlinks WHERE owner_address = $1 ORDER BY created_at DESC
	`, ownerAddress)
	if err != nil {
		return nil, fmt.Errorf("list mlinks by owner: %w", err)
	}
	defer rows.Close()

	mlinks := []*model.MLink{}
	for rows.Next() {
		mlink, err := scanMLinkFromRow(rows)
		if err != nil {
			return nil, err
		}
		mlinks = append(mlinks, mlink)
	}
	return mlinks, rows.Err()
}

func (p *Postgres) ListMLinksForModeration(ctx context.Context, filters ModerationFilters) ([]*model.MLink, int, error) {
	where := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filters.Status != "" && filters.Status != "all" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d OR action_url ILIKE $%d OR owner_address ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+filters.Search+"%")
		argIdx++
	}

	return p.listMLinks(ctx, strings.Join(where, " AND "), args, argIdx, filters.Page, filters.Limit)
}

func (p *Postgres) listMLinks(ctx context.Context, where string, args []interface{}, argIdx, page, limit int) ([]*model.MLink, int, error) {
	var total int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM mlinks WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count mlinks: %w", err)
	}

	offset := (page - 1) * limit
	query := fmt.Sprintf(`SELECT %s FROM mlinks WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		mlinkColumns, where, argIdx, argIdx+1)
	rows, err := p.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list mlinks: %w", err)
	}
	defer rows.Close()

	mlinks := []*model.MLink{}
	for rows.Next() {
		mlink, err := scanMLinkFromRow(rows)
		if err != nil {
			return nil, 0, err
		}
		mlinks = append(mlinks, mlink)
	}
	return mlinks, total, rows.Err()
}

func (p *Postgres) CountMLinksByStatus(ctx context.Context) (StatusCounts, error) {
	rows, err := p.pool.Query(ctx, `SELECT status, COUNT(*) FROM mlinks GROUP BY status`)
	if err != nil {
		return StatusCounts{}, fmt.Errorf("count mlinks by status: %w", err)
	}
	defer rows.Close()

	var counts StatusCounts
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return StatusCounts{}, fmt.Errorf("scan status count: %w", err)
		}
		switch model.MLinkStatus(status) {
		case model.StatusPending:
			counts.Pending = count
		case model.StatusApproved:
			counts.Approved = count
		case model.StatusBlocked:
			counts.Blocked = count
		}
		counts.All += count
	}
	return counts, rows.Err()
}

func (p *Postgres) CountMLinks(ctx context.Context) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM mlinks`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count mlinks: %w", err)
	}
	return count, nil
}

func (p *Postgres) UpdateMLink(ctx context.Context, mlinkID string, updates MLinkUpdates) error {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	if updates.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *updates.Name)
		argIdx++
	}
	if updates.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *updates.Description)
		argIdx++
	}
	if updates.Icon != nil {
		setClauses = append(setClauses, fmt.Sprintf("icon = $%d", argIdx))
		args = append(args, *updates.Icon)
		argIdx++
	}
	if updates.Tags != nil {
		tags, err := json.Marshal(model.TruncateTags(updates.Tags))
		if err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}
		setClauses = append(setClauses, fmt.Sprintf("tags = $%d", argIdx))
		args = append(args, tags)
		argIdx++
	}
	if updates.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *updates.Status)
		argIdx++
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, mlinkID)

	query := fmt.Sprintf("UPDATE mlinks SET %s WHERE mlink_id = $%d",
		strings.Join(setClauses, ", "), argIdx)

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update mlink: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteMLink(ctx context.Context, mlinkID, ownerAddress string) error {
	tag, err := p.pool.Exec(ctx, `
		DELETE FROM mlinks WHERE mlink_id = $1 AND owner_address = $2
	`, mlinkID, ownerAddress)
	if err != nil {
		return fmt.Errorf("delete mlink: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) SetMLinkStatus(ctx context.Context, mlinkID string, status model.MLinkStatus, reason, adminAddress string) error {
	// reason is nullable — pass nil when empty
	var statusReason interface{}
	if reason != "" {
		statusReason = reason
	}

	tag, err := p.pool.Exec(ctx, `
		UPDATE mlinks
		SET status = $1, status_reason = $2, status_updated_at = NOW(), status_updated_by = $3, updated_at = NOW()
		WHERE mlink_id = $4
	`, status, statusReason, adminAddress, mlinkID)
	if err != nil {
		return fmt.Errorf("set mlink status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) scanMLink(ctx context.Context, query string, args ...interface{}) (*model.MLink, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mlink: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, pgx.ErrNoRows
	}
	return scanMLinkFromRow(rows)
}

func scanMLinkFromRow(rows pgx.Rows) (*model.MLink, error) {
	var mlink model.MLink
	var tagsJSON []byte
	var statusReason, statusUpdatedBy *string

	err := rows.Scan(
		&mlink.ID, &mlink.MLinkID, &mlink.ActionURL, &mlink.Name, &mlink.Description,
		&mlink.Icon, &mlink.OwnerAddress, &mlink.APIKeyID, &tagsJSON,
		&mlink.Status, &statusReason, &mlink.StatusUpdatedAt, &statusUpdatedBy,
		&mlink.CreatedAt, &mlink.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan mlink: %w", err)
	}

	if statusReason != nil {
		mlink.StatusReason = *statusReason
	}
	if statusUpdatedBy != nil {
		mlink.StatusUpdatedBy = *statusUpdatedBy
	}
	if err := json.Unmarshal(tagsJSON, &mlink.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}

	return &mlink, nil
}
