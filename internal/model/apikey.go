package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// APIKeyPrefix is the fixed prefix of every issued key. Tokens without it
// are rejected before any store lookup.
const APIKeyPrefix = "mk_"

// MaxKeysPerOwner is the per-wallet issuance quota.
const MaxKeysPerOwner = 5

// MaxKeyNameLength is the maximum length of a key's user label.
const MaxKeyNameLength = 50

// APIKey is a bearer credential owned by a wallet address. The full key is
// stored and returned in plaintext: owners can view and copy it at any time.
type APIKey struct {
	ID           uuid.UUID  `json:"id"`
	Key          string     `json:"key"`
	Name         string     `json:"name"`
	OwnerAddress string     `json:"owner_address"`
	IsActive     bool       `json:"is_active"`
	LastUsedAt   *time.Time `json:"last_used_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// GenerateAPIKey returns a fresh bearer token: the fixed prefix followed by
// 24 random bytes hex-encoded.
func GenerateAPIKey() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand failed: %w", err)
	}
	return APIKeyPrefix + hex.EncodeToString(b), nil
}
