package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/dipansrimany2006/mlink-client/internal/model"
)

// APIKeyStore defines operations for API key management.
type APIKeyStore interface {
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
	GetAPIKeyByKey(ctx context.Context, rawKey string) (*model.APIKey, error)
	ListAPIKeysByOwner(ctx context.Context, ownerAddress string) ([]*model.APIKey, error)
	CountAPIKeysByOwner(ctx context.Context, ownerAddress string) (int, error)
	TouchAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	// DeleteAPIKey and SetAPIKeyActive match on id AND owner in a single
	// statement; a miss on either reports ErrNotFound without revealing which.
	DeleteAPIKey(ctx context.Context, id uuid.UUID, ownerAddress string) error
	SetAPIKeyActive(ctx context.Context, id uuid.UUID, ownerAddress string, active bool) error
}

// MLinkStore defines operations for registry entry management.
type MLinkStore interface {
	CreateMLink(ctx context.Context, mlink *model.MLink) error
	GetMLinkByMLinkID(ctx context.Context, mlinkID string) (*model.MLink, error)
	GetMLinkByActionURL(ctx context.Context, actionURL string) (*model.MLink, error)
	ListPublicMLinks(ctx context.Context, filters PublicFilters) ([]*model.MLink, int, error)
	ListMLinksByOwner(ctx context.Context, ownerAddress string) ([]*model.MLink, error)
	ListMLinksForModeration(ctx context.Context, filters ModerationFilters) ([]*model.MLink, int, error)
	CountMLinksByStatus(ctx context.Context) (StatusCounts, error)
	CountMLinks(ctx context.Context) (int, error)
	UpdateMLink(ctx context.Context, mlinkID string, updates MLinkUpdates) error
	DeleteMLink(ctx context.Context, mlinkID, ownerAddress string) error
	SetMLinkStatus(ctx context.Context, mlinkID string, status model.MLinkStatus, reason, adminAddress string) error
}

// Store combines both APIKeyStore and MLinkStore.
type Store interface {
	APIKeyStore
	MLinkStore
}

// MLinkUpdates is the owner-editable field subset. Status is set by the
// registry service when a substantive field changes, never by callers directly.
type MLinkUpdates struct {
	Name        *string
	Description *string
	Icon        *string
	Tags        []string
	Status      *model.MLinkStatus
}

// PublicFilters scopes the public listing. Only approved entries are returned.
type PublicFilters struct {
	Tag    string
	Search string
	Page   int
	Limit  int
}

// ModerationFilters scopes the admin listing across all statuses.
// Status empty or "all" means no status filter.
type ModerationFilters struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// StatusCounts aggregates entry counts per moderation state.
type StatusCounts struct {
	All      int `json:"all"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Blocked  int `json:"blocked"`
}
