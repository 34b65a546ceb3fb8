package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dipansrimany2006/mlink-client/internal/model"
	"github.com/dipansrimany2006/mlink-client/internal/store"
	"github.com/dipansrimany2006/mlink-client/internal/validation"
)

// APIKeyService handles credential lifecycle: issue, list, revoke, toggle,
// and bearer-token authentication for registry writes.
type APIKeyService struct {
	store store.APIKeyStore
}

// NewAPIKeyService creates a new API key service.
func NewAPIKeyService(s store.APIKeyStore) *APIKeyService {
	return &APIKeyService{store: s}
}

// Issue generates and persists a new key for the owner. The full plaintext
// key is returned and remains retrievable via ListByOwner afterward.
func (s *APIKeyService) Issue(ctx context.Context, ownerAddress, name string) (*model.APIKey, error) {
	if strings.TrimSpace(ownerAddress) == "" {
		return nil, NewBadRequest("invalid_request", "Owner address is required")
	}
	if err := validation.KeyName(name); err != nil {
		return nil, NewBadRequest("invalid_request", "Key "+err.Error())
	}

	owner := validation.NormalizeAddress(ownerAddress)

	count, err := s.store.CountAPIKeysByOwner(ctx, owner)
	if err != nil {
		log.Error().Err(err).Str("owner", owner).Msg("failed to count API keys")
		return nil, NewInternal("internal_error", "Failed to create API key")
	}
	if count >= model.MaxKeysPerOwner {
		return nil, NewBadRequest("quota_exceeded", "Maximum 5 API keys allowed per wallet")
	}

	rawKey, err := model.GenerateAPIKey()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate API key")
		return nil, NewInternal("internal_error", "Failed to create API key")
	}

	apiKey := &model.APIKey{
		Key:          rawKey,
		Name:         strings.TrimSpace(name),
		OwnerAddress: owner,
		IsActive:     true,
	}
	if err := s.store.CreateAPIKey(ctx, apiKey); err != nil {
		log.Error().Err(err).Msg("failed to create API key")
		return nil, NewInternal("internal_error", "Failed to create API key")
	}

	return apiKey, nil
}

// ListByOwner returns all of an owner's keys, newest first, plaintext included.
func (s *APIKeyService) ListByOwner(ctx context.Context, ownerAddress string) ([]*model.APIKey, error) {
	if strings.TrimSpace(ownerAddress) == "" {
		return nil, NewBadRequest("invalid_request", "Address parameter is required")
	}

	keys, err := s.store.ListAPIKeysByOwner(ctx, validation.NormalizeAddress(ownerAddress))
	if err != nil {
		log.Error().Err(err).Msg("failed to list API keys")
		return nil, NewInternal("internal_error", "Failed to fetch API keys")
	}
	return keys, nil
}

// Authenticate resolves a bearer token to its key record. The last-used
// timestamp is touched best-effort; a touch failure does not fail the request.
func (s *APIKeyService) Authenticate(ctx context.Context, token string) (*model.APIKey, error) {
	if token == "" {
		return nil, NewUnauthorized("invalid_api_key", "API key is required. Add x-api-key header.")
	}
	if !strings.HasPrefix(token, model.APIKeyPrefix) {
		return nil, NewUnauthorized("invalid_api_key", "Invalid API key format.")
	}

	apiKey, err := s.store.GetAPIKeyByKey(ctx, token)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, NewUnauthorized("invalid_api_key", "Invalid or inactive API key.")
		}
		log.Error().Err(err).Msg("failed to look up API key")
		return nil, NewInternal("internal_error", "Failed to validate API key.")
	}
	if !apiKey.IsActive {
		return nil, NewUnauthorized("invalid_api_key", "Invalid or inactive API key.")
	}

	if err := s.store.TouchAPIKeyLastUsed(ctx, apiKey.ID); err != nil {
		log.Warn().Err(err).Str("id", apiKey.ID.String()).Msg("failed to touch API key last_used_at")
	}

	return apiKey, nil
}

// Revoke hard-deletes a key. The id+owner pair must match; a miss on either
// reports the same not-found error to avoid leaking key existence.
func (s *APIKeyService) Revoke(ctx context.Context, id uuid.UUID, ownerAddress string) error {
	if strings.TrimSpace(ownerAddress) == "" {
		return NewBadRequest("invalid_request", "Address parameter is required")
	}

	err := s.store.DeleteAPIKey(ctx, id, validation.NormalizeAddress(ownerAddress))
	if err != nil {
		if store.IsNotFound(err) {
			return NewNotFound("not_found", "API key not found or not authorized")
		}
		log.Error().Err(err).Str("id", id.String()).Msg("failed to delete API key")
		return NewInternal("internal_error", "Failed to delete API key")
	}
	return nil
}

// SetActive toggles a key's active gate, scoped to the owning address.
func (s *APIKeyService) SetActive(ctx context.Context, id uuid.UUID, ownerAddress string, active bool) error {
	if strings.TrimSpace(ownerAddress) == "" {
		return NewBadRequest("invalid_request", "Owner address is required")
	}

	err := s.store.SetAPIKeyActive(ctx, id, validation.NormalizeAddress(ownerAddress), active)
	if err != nil {
		if store.IsNotFound(err) {
			return NewNotFound("not_found", "API key not found or not authorized")
		}
		log.Error().Err(err).Str("id", id.String()).Msg("failed to update API key")
		return NewInternal("internal_error", "Failed to update API key")
	}
	return nil
}
