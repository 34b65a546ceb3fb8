package model

import (
	"time"

	"github.com/google/uuid"
)

// MLinkStatus is the moderation state of a registry entry.
type MLinkStatus string

const (
	StatusPending  MLinkStatus = "pending"
	StatusApproved MLinkStatus = "approved"
	StatusBlocked  MLinkStatus = "blocked"
)

// ValidStatus reports whether s is one of the three moderation states.
func ValidStatus(s MLinkStatus) bool {
	return s == StatusPending || s == StatusApproved || s == StatusBlocked
}

const (
	// MaxTags caps the tag list; longer lists are truncated, not rejected.
	MaxTags = 10

	MaxMLinkNameLength        = 100
	MaxMLinkDescriptionLength = 500
	MaxStatusReasonLength     = 500
)

// MLink is a registered action endpoint. MLinkID is the public identifier;
// ActionURL is the natural key — exactly one entry per distinct URL.
type MLink struct {
	ID              uuid.UUID   `json:"-"`
	MLinkID         string      `json:"mlink_id"`
	ActionURL       string      `json:"action_url"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Icon            string      `json:"icon"`
	OwnerAddress    string      `json:"owner_address"`
	APIKeyID        uuid.UUID   `json:"api_key_id"`
	Tags            []string    `json:"tags"`
	Status          MLinkStatus `json:"status"`
	StatusReason    string      `json:"status_reason,omitempty"`
	StatusUpdatedAt *time.Time  `json:"status_updated_at,omitempty"`
	StatusUpdatedBy string      `json:"status_updated_by,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// GenerateMLinkID returns a fresh public MLink identifier.
func GenerateMLinkID() string {
	return "ml_" + uuid.NewString()
}

// TruncateTags returns at most MaxTags entries, preserving order. A nil
// input yields an empty (non-nil) slice so entries always persist a list.
func TruncateTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	if len(tags) > MaxTags {
		return tags[:MaxTags]
	}
	return tags
}
