package validation

import (
	"fmt"
	"strings"

	"github.com/dipansrimany2006/mlink-client/internal/model"
)

// NormalizeAddress lowercases a chain address. Addresses are compared
// case-insensitively everywhere; the store only ever sees this form.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// KeyName validates an API key label.
func KeyName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name is required")
	}
	if len(trimmed) > model.MaxKeyNameLength {
		return fmt.Errorf("name must be at most %d characters", model.MaxKeyNameLength)
	}
	return nil
}

// MLinkName validates a registry entry display name.
func MLinkName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > model.MaxMLinkNameLength {
		return fmt.Errorf("name must be at most %d characters", model.MaxMLinkNameLength)
	}
	return nil
}

// MLinkDescription validates a registry entry description.
func MLinkDescription(description string) error {
	if description == "" {
		return fmt.Errorf("description cannot be empty")
	}
	if len(description) > model.MaxMLinkDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", model.MaxMLinkDescriptionLength)
	}
	return nil
}

// StatusReason validates a moderation reason. Empty is allowed.
func StatusReason(reason string) error {
	if len(reason) > model.MaxStatusReasonLength {
		return fmt.Errorf("reason must be at most %d characters", model.MaxStatusReasonLength)
	}
	return nil
}
