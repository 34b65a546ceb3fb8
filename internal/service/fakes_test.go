package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dipansrimany2006/mlink-client/internal/model"
	"github.com/dipansrimany2006/mlink-client/internal/store"
)

// In-memory store fakes shared by the service tests.

type fakeAPIKeyStore struct {
	keys       []*model.APIKey
	touchedIDs []uuid.UUID
}

func (f *fakeAPIKeyStore) CreateAPIKey(_ context.Context, key *model.APIKey) error {
	key.ID = uuid.New()
	key.CreatedAt = time.Now().UTC()
	key.UpdatedAt = key.CreatedAt
	clone := *key
	f.keys = append(f.keys, &clone)
	return nil
}

func (f *fakeAPIKeyStore) GetAPIKeyByKey(_ context.Context, rawKey string) (*model.APIKey, error) {
	for _, k := range f.keys {
		if k.Key == rawKey {
			clone := *k
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeAPIKeyStore) ListAPIKeysByOwner(_ context.Context, owner string) ([]*model.APIKey, error) {
	out := []*model.APIKey{}
	for _, k := range f.keys {
		if k.OwnerAddress == owner {
			clone := *k
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeAPIKeyStore) CountAPIKeysByOwner(_ context.Context, owner string) (int, error) {
	count := 0
	for _, k := range f.keys {
		if k.OwnerAddress == owner {
			count++
		}
	}
	return count, nil
}

func (f *fakeAPIKeyStore) TouchAPIKeyLastUsed(_ context.Context, id uuid.UUID) error {
	f.touchedIDs = append(f.touchedIDs, id)
	now := time.Now().UTC()
	for _, k := range f.keys {
		if k.ID == id {
			k.LastUsedAt = &now
		}
	}
	return nil
}

func (f *fakeAPIKeyStore) DeleteAPIKey(_ context.Context, id uuid.UUID, owner string) error {
	for i, k := range f.keys {
		if k.ID == id && k.OwnerAddress == owner {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeAPIKeyStore) SetAPIKeyActive(_ context.Context, id uuid.UUID, owner string, active bool) error {
	for _, k := range f.keys {
		if k.ID == id && k.OwnerAddress == owner {
			k.IsActive = active
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeMLinkStore struct {
	mlinks []*model.MLink
}

func (f *fakeMLinkStore) CreateMLink(_ context.Context, mlink *model.MLink) error {
	for _, m := range f.mlinks {
		if m.ActionURL == mlink.ActionURL {
			return store.ErrDuplicateActionURL
		}
	}
	mlink.ID = uuid.New()
	mlink.CreatedAt = time.Now().UTC()
	mlink.UpdatedAt = mlink.CreatedAt
	clone := cloneMLink(mlink)
	f.mlinks = append(f.mlinks, clone)
	return nil
}

func (f *fakeMLinkStore) GetMLinkByMLinkID(_ context.Context, mlinkID string) (*model.MLink, error) {
	for _, m := range f.mlinks {
		if m.MLinkID == mlinkID {
			return cloneMLink(m), nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeMLinkStore) GetMLinkByActionURL(_ context.Context, actionURL string) (*model.MLink, error) {
	for _, m := range f.mlinks {
		if m.ActionURL == actionURL {
			return cloneMLink(m), nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeMLinkStore) ListPublicMLinks(_ context.Context, filters store.PublicFilters) ([]*model.MLink, int, error) {
	matched := []*model.MLink{}
	for _, m := range f.mlinks {
		if m.Status != model.StatusApproved {
			continue
		}
		if filters.Tag != "" && !containsTag(m.Tags, filters.Tag) {
			continue
		}
		if filters.Search != "" && !matchesSearch(m, filters.Search, false) {
			continue
		}
		matched = append(matched, cloneMLink(m))
	}
	return paginate(matched, filters.Page, filters.Limit)
}

func (f *fakeMLinkStore) ListMLinksByOwner(_ context.Context, owner string) ([]*model.MLink, error) {
	out := []*model.MLink{}
	for _, m := range f.mlinks {
		if m.OwnerAddress == owner {
			out = append(out, cloneMLink(m))
		}
	}
	return out, nil
}

func (f *fakeMLinkStore) ListMLinksForModeration(_ context.Context, filters store.ModerationFilters) ([]*model.MLink, int, error) {
	matched := []*model.MLink{}
	for _, m := range f.mlinks {
		if filters.Status != "" && filters.Status != "all" && string(m.Status) != filters.Status {
			continue
		}
		if filters.Search != "" && !matchesSearch(m, filters.Search, true) {
			continue
		}
		matched = append(matched, cloneMLink(m))
	}
	return paginate(matched, filters.Page, filters.Limit)
}

func (f *fakeMLinkStore) CountMLinksByStatus(_ context.Context) (store.StatusCounts, error) {
	var counts store.StatusCounts
	for _, m := range f.mlinks {
		switch m.Status {
		case model.StatusPending:
			counts.Pending++
		case model.StatusApproved:
			counts.Approved++
		case model.StatusBlocked:
			counts.Blocked++
		}
		counts.All++
	}
	return counts, nil
}

func (f *fakeMLinkStore) CountMLinks(_ context.Context) (int, error) {
	return len(f.mlinks), nil
}

func (f *fakeMLinkStore) UpdateMLink(_ context.Context, mlinkID string, updates store.MLinkUpdates) error {
	for _, m := range f.mlinks {
		if m.MLinkID != mlinkID {
			continue
		}
		if updates.Name != nil {
			m.Name = *updates.Name
		}
		if updates.Description != nil {
			m.Description = *updates.Description
		}
		if updates.Icon != nil {
			m.Icon = *updates.Icon
		}
		if updates.Tags != nil {
			m.Tags = model.TruncateTags(updates.Tags)
		}
		if updates.Status != nil {
			m.Status = *updates.Status
		}
		m.UpdatedAt = time.Now().UTC()
		return nil
	}
	return store.ErrNotFound
}

func (f *fakeMLinkStore) DeleteMLink(_ context.Context, mlinkID, owner string) error {
	for i, m := range f.mlinks {
		if m.MLinkID == mlinkID && m.OwnerAddress == owner {
			f.mlinks = append(f.mlinks[:i], f.mlinks[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeMLinkStore) SetMLinkStatus(_ context.Context, mlinkID string, status model.MLinkStatus, reason, adminAddress string) error {
	for _, m := range f.mlinks {
		if m.MLinkID == mlinkID {
			now := time.Now().UTC()
			m.Status = status
			m.StatusReason = reason
			m.StatusUpdatedAt = &now
			m.StatusUpdatedBy = adminAddress
			m.UpdatedAt = now
			return nil
		}
	}
	return store.ErrNotFound
}

func cloneMLink(m *model.MLink) *model.MLink {
	clone := *m
	clone.Tags = append([]string(nil), m.Tags...)
	return &clone
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func matchesSearch(m *model.MLink, search string, includeURLAndOwner bool) bool {
	needle := strings.ToLower(search)
	haystacks := []string{m.Name, m.Description}
	if includeURLAndOwner {
		haystacks = append(haystacks, m.ActionURL, m.OwnerAddress)
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func paginate(mlinks []*model.MLink, page, limit int) ([]*model.MLink, int, error) {
	total := len(mlinks)
	start := (page - 1) * limit
	if start >= total {
		return []*model.MLink{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return mlinks[start:end], total, nil
}
