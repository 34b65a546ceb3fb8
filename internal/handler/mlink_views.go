package handler

import (
	"time"

	"github.com/dipansrimany2006/mlink-client/internal/model"
)

// MLinkView is the wire representation of a registry entry. Audit fields
// are only populated on admin surfaces.
type MLinkView struct {
	MLinkID         string   `json:"mlinkId"`
	ActionURL       string   `json:"actionUrl,omitempty"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Icon            string   `json:"icon"`
	OwnerAddress    string   `json:"ownerAddress,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Status          string   `json:"status,omitempty"`
	StatusReason    string   `json:"statusReason,omitempty"`
	StatusUpdatedAt string   `json:"statusUpdatedAt,omitempty"`
	StatusUpdatedBy string   `json:"statusUpdatedBy,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
}

// ToOwnerView renders an entry for its owner: everything except audit detail.
func ToOwnerView(m *model.MLink) MLinkView {
	return MLinkView{
		MLinkID:     m.MLinkID,
		ActionURL:   m.ActionURL,
		Name:        m.Name,
		Description: m.Description,
		Icon:        m.Icon,
		Tags:        m.Tags,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
	}
}

// ToPublicView renders an approved entry for the public listing. Status is
// omitted: everything listed publicly is approved by definition.
func ToPublicView(m *model.MLink) MLinkView {
	return MLinkView{
		MLinkID:     m.MLinkID,
		ActionURL:   m.ActionURL,
		Name:        m.Name,
		Description: m.Description,
		Icon:        m.Icon,
		Tags:        m.Tags,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

// ToValidationView renders the compact summary attached to validation
// responses consumed by third-party renderers.
func ToValidationView(m *model.MLink) MLinkView {
	return MLinkView{
		MLinkID:     m.MLinkID,
		Name:        m.Name,
		Description: m.Description,
		Icon:        m.Icon,
		Status:      string(m.Status),
	}
}

// ToModerationView renders an entry for the admin console, audit trail included.
func ToModerationView(m *model.MLink) MLinkView {
	v := ToOwnerView(m)
	v.OwnerAddress = m.OwnerAddress
	v.StatusReason = m.StatusReason
	v.StatusUpdatedBy = m.StatusUpdatedBy
	if m.StatusUpdatedAt != nil {
		v.StatusUpdatedAt = m.StatusUpdatedAt.Format(time.RFC3339)
	}
	return v
}
