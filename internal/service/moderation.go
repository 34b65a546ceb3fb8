package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dipansrimany2006/mlink-client/internal/model"
	"github.com/dipansrimany2006/mlink-client/internal/store"
	"github.com/dipansrimany2006/mlink-client/internal/validation"
)

// ModerationService is the admin-only surface: triage listings with status
// aggregates and the status transition that writes the audit trail.
//
// Admin identity is a caller-supplied address checked against a fixed
// allow-list resolved at startup. No signature is verified; see DESIGN.md.
type ModerationService struct {
	store  store.MLinkStore
	admins map[string]struct{}
}

// NewModerationService creates a moderation service with the given admin
// allow-list. Addresses are normalized once; the set is never mutated.
func NewModerationService(s store.MLinkStore, adminAddresses []string) *ModerationService {
	admins := make(map[string]struct{}, len(adminAddresses))
	for _, addr := range adminAddresses {
		admins[validation.NormalizeAddress(addr)] = struct{}{}
	}
	return &ModerationService{store: s, admins: admins}
}

// IsAdmin reports whether the address is on the allow-list. Comparison is
// case-insensitive; empty addresses are never admins.
func (s *ModerationService) IsAdmin(address string) bool {
	if address == "" {
		return false
	}
	_, ok := s.admins[validation.NormalizeAddress(address)]
	return ok
}

// ModerationListing is the triage view: one page of entries plus the
// per-status aggregate counts computed in the same pass.
type ModerationListing struct {
	MLinks []*model.MLink
	Total  int
	Counts store.StatusCounts
}

// ListForModeration returns entries across all statuses for admin review.
func (s *ModerationService) ListForModeration(ctx context.Context, adminAddress string, filters store.ModerationFilters) (*ModerationListing, error) {
	if err := s.requireAdmin(adminAddress); err != nil {
		return nil, err
	}

	mlinks, total, err := s.store.ListMLinksForModeration(ctx, filters)
	if err != nil {
		log.Error().Err(err).Msg("failed to list mlinks for moderation")
		return nil, NewInternal("internal_error", "Failed to fetch MLinks")
	}

	counts, err := s.store.CountMLinksByStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count mlinks by status")
		return nil, NewInternal("internal_error", "Failed to fetch MLinks")
	}

	return &ModerationListing{MLinks: mlinks, Total: total, Counts: counts}, nil
}

// GetForModeration returns a single entry including its audit fields.
func (s *ModerationService) GetForModeration(ctx context.Context, adminAddress, mlinkID string) (*model.MLink, error) {
	if err := s.requireAdmin(adminAddress); err != nil {
		return nil, err
	}

	mlink, err := s.store.GetMLinkByMLinkID(ctx, mlinkID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, NewNotFound("not_found", "MLink not found")
		}
		log.Error().Err(err).Str("mlink_id", mlinkID).Msg("failed to fetch mlink")
		return nil, NewInternal("internal_error", "Failed to fetch MLink")
	}
	return mlink, nil
}

// SetStatus performs an admin status transition. This is the only write
// path for status_reason, status_updated_at, and status_updated_by.
func (s *ModerationService) SetStatus(ctx context.Context, adminAddress, mlinkID string, status model.MLinkStatus, reason string) (*model.MLink, error) {
	if err := s.requireAdmin(adminAddress); err != nil {
		return nil, err
	}
	if !model.ValidStatus(status) {
		return nil, NewBadRequest("invalid_status", "Invalid status. Must be pending, approved, or blocked")
	}
	if err := validation.StatusReason(reason); err != nil {
		return nil, NewBadRequest("invalid_request", err.Error())
	}

	err := s.store.SetMLinkStatus(ctx, mlinkID, status, reason, validation.NormalizeAddress(adminAddress))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, NewNotFound("not_found", "MLink not found")
		}
		log.Error().Err(err).Str("mlink_id", mlinkID).Msg("failed to set mlink status")
		return nil, NewInternal("internal_error", "Failed to update MLink status")
	}

	mlink, err := s.store.GetMLinkByMLinkID(ctx, mlinkID)
	if err != nil {
		log.Error().Err(err).Str("mlink_id", mlinkID).Msg("failed to reload mlink")
		return nil, NewInternal("internal_error", "Failed to update MLink status")
	}
	return mlink, nil
}

func (s *ModerationService) requireAdmin(address string) error {
	if address == "" {
		return NewForbidden("forbidden", "Admin address is required")
	}
	if !s.IsAdmin(address) {
		return NewForbidden("forbidden", "Not authorized. Admin access required.")
	}
	return nil
}
