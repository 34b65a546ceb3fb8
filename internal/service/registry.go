package service

import (
	"context"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/dipansrimany2006/mlink-client/internal/model"
	"github.com/dipansrimany2006/mlink-client/internal/store"
	"github.com/dipansrimany2006/mlink-client/internal/validation"
	"github.com/dipansrimany2006/mlink-client/internal/validator"
)

// RegistryService owns the MLink registry: registration, owner edits, the
// public listing, and the runtime validation lookup.
type RegistryService struct {
	store     store.MLinkStore
	validator *validator.Validator
}

// NewRegistryService creates a new registry service.
func NewRegistryService(s store.MLinkStore, v *validator.Validator) *RegistryService {
	return &RegistryService{store: s, validator: v}
}

// RegisterInput contains the parameters for registering an action endpoint.
// Name, Description, and Icon are optional overrides; when empty the values
// discovered from the endpoint's own metadata are used.
type RegisterInput struct {
	ActionURL   string
	Name        string
	Description string
	Icon        string
	Tags        []string
}

// Register validates the candidate endpoint and creates the entry in pending
// state. The action URL is a case-sensitive natural key: one entry per URL.
func (s *RegistryService) Register(ctx context.Context, apiKey *model.APIKey, input RegisterInput) (*model.MLink, error) {
	if input.ActionURL == "" {
		return nil, NewBadRequest("invalid_request", "actionUrl is required")
	}

	result := s.validator.Validate(ctx, input.ActionURL)
	if !result.Valid {
		return nil, NewBadRequest(result.ErrorCode, result.ErrorMessage)
	}

	// Owner-supplied metadata wins over the endpoint's self-description.
	name := input.Name
	if name == "" {
		name = result.Metadata.Title
	}
	description := input.Description
	if description == "" {
		description = result.Metadata.Description
	}
	icon := input.Icon
	if icon == "" {
		icon = result.Metadata.Icon
	}

	if err := validation.MLinkName(name); err != nil {
		return nil, NewBadRequest("invalid_request", err.Error())
	}
	if err := validation.MLinkDescription(description); err != nil {
		return nil, NewBadRequest("invalid_request", err.Error())
	}

	mlink := &model.MLink{
		MLinkID:      model.GenerateMLinkID(),
		ActionURL:    input.ActionURL,
		Name:         name,
		Description:  description,
		Icon:         icon,
		OwnerAddress: validation.NormalizeAddress(apiKey.OwnerAddress),
		APIKeyID:     apiKey.ID,
		Tags:         model.TruncateTags(input.Tags),
		Status:       model.StatusPending,
	}

	if err := s.store.CreateMLink(ctx, mlink); err != nil {
		if err == store.ErrDuplicateActionURL {
			return nil, NewConflict("duplicate_action_url", "An MLink with this action URL is already registered")
		}
		log.Error().Err(err).Str("action_url", input.ActionURL).Msg("failed to create mlink")
		return nil, NewInternal("internal_error", "Failed to register MLink")
	}

	return mlink, nil
}

// UpdateInput is the owner-editable patch. Nil pointers mean "leave as is".
type UpdateInput struct {
	Name        *string
	Description *string
	Icon        *string
	Tags        []string
}

// Update applies an owner's patch. A change to name or description is a
// substantive edit and forces the entry back to pending review; icon and
// tag edits are cosmetic and leave status untouched. An explicitly empty
// string is treated as not supplied, not as a clear.
func (s *RegistryService) Update(ctx context.Context, ownerAddress, mlinkID string, input UpdateInput) (*model.MLink, error) {
	if input.Name != nil && *input.Name == "" {
		input.Name = nil
	}
	if input.Description != nil && *input.Description == "" {
		input.Description = nil
	}
	if input.Icon != nil && *input.Icon == "" {
		input.Icon = nil
	}

	mlink, err := s.store.GetMLinkByMLinkID(ctx, mlinkID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, NewNotFound("not_found", "MLink not found")
		}
		log.Error().Err(err).Str("mlink_id", mlinkID).Msg("failed to fetch mlink")
		return nil, NewInternal("internal_error", "Failed to update MLink")
	}

	if mlink.OwnerAddress != validation.NormalizeAddress(ownerAddress) {
		return nil, NewForbidden("forbidden", "Not authorized to update this MLink")
	}

	if input.Name != nil {
		if err := validation.MLinkName(*input.Name); err != nil {
			return nil, NewBadRequest("invalid_request", err.Error())
		}
	}
	if input.Description != nil {
		if err := validation.MLinkDescription(*input.Description); err != nil {
			return nil, NewBadRequest("invalid_request", err.Error())
		}
	}

	updates := store.MLinkUpdates{
		Name:        input.Name,
		Description: input.Description,
		Icon:        input.Icon,
		Tags:        input.Tags,
	}
	if input.Name != nil || input.Description != nil {
		pending := model.StatusPending
		updates.Status = &pending
	}

	if err := s.store.UpdateMLink(ctx, mlinkID, updates); err != nil {
		log.Error().Err(err).Str("mlink_id", mlinkID).Msg("failed to update mlink")
		return nil, NewInternal("internal_error", "Failed to update MLink")
	}

	updated, err := s.store.GetMLinkByMLinkID(ctx, mlinkID)
	if err != nil {
		log.Error().Err(err).Str("mlink_id", mlinkID).Msg("failed to reload mlink")
		return nil, NewInternal("internal_error", "Failed to update MLink")
	}
	return updated, nil
}

// Delete removes an entry. The id+owner pair must match; a miss on either
// reports the same not-found error.
func (s *RegistryService) Delete(ctx context.Context, ownerAddress, mlinkID string) error {
	err := s.store.DeleteMLink(ctx, mlinkID, validation.NormalizeAddress(ownerAddress))
	if err != nil {
		if store.IsNotFound(err) {
			return NewNotFound("not_found", "MLink not found or not authorized")
		}
		log.Error().Err(err).Str("mlink_id", mlinkID).Msg("failed to delete mlink")
		return NewInternal("internal_error", "Failed to delete MLink")
	}
	return nil
}

// ListPublic returns approved entries only.
func (s *RegistryService) ListPublic(ctx context.Context, filters store.PublicFilters) ([]*model.MLink, int, error) {
	mlinks, total, err := s.store.ListPublicMLinks(ctx, filters)
	if err != nil {
		log.Error().Err(err).Msg("failed to list public mlinks")
		return nil, 0, NewInternal("internal_error", "Failed to fetch MLinks")
	}
	return mlinks, total, nil
}

// ListMine returns all of an owner's entries regardless of status.
func (s *RegistryService) ListMine(ctx context.Context, ownerAddress string) ([]*model.MLink, error) {
	if ownerAddress == "" {
		return nil, NewBadRequest("invalid_request", "Address parameter is required")
	}

	mlinks, err := s.store.ListMLinksByOwner(ctx, validation.NormalizeAddress(ownerAddress))
	if err != nil {
		log.Error().Err(err).Msg("failed to list owner mlinks")
		return nil, NewInternal("internal_error", "Failed to fetch MLinks")
	}
	return mlinks, nil
}

// ValidationOutcome is the public validation result consumed by third-party
// renderers. An unregistered URL is a normal outcome, not an error.
type ValidationOutcome struct {
	IsRegistered bool
	MLink        *model.MLink
	Warning      string
	Guidance     string
}

// Validate looks up an action URL's registration and moderation status.
// The input is URL-decoded before the exact-match lookup.
func (s *RegistryService) Validate(ctx context.Context, rawURL string) (*ValidationOutcome, error) {
	actionURL := rawURL
	if decoded, err := url.QueryUnescape(rawURL); err == nil {
		actionURL = decoded
	}

	mlink, err := s.store.GetMLinkByActionURL(ctx, actionURL)
	if err != nil {
		if store.IsNotFound(err) {
			return &ValidationOutcome{
				IsRegistered: false,
				Guidance:     "This action URL is not registered in the MLinks registry. Please register it via the dashboard.",
			}, nil
		}
		log.Error().Err(err).Str("action_url", actionURL).Msg("failed to validate mlink")
		return nil, NewInternal("internal_error", "Failed to validate MLink")
	}

	outcome := &ValidationOutcome{IsRegistered: true, MLink: mlink}
	switch mlink.Status {
	case model.StatusPending:
		outcome.Warning = "This MLink is pending review and may not be fully accessible."
	case model.StatusBlocked:
		outcome.Warning = "This MLink has been blocked for policy violations."
	}
	return outcome, nil
}
