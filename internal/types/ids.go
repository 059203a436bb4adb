package types

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// NewFamilyID generates a UUIDv7 family identifier.
// Time-ordered IDs ensure sequential inserts cluster in B-tree pages.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewFamilyID() FamilyID {
	return FamilyID(uuid.Must(uuid.NewV7()).String())
}

// NewConstraintID generates a UUIDv7 constraint identifier.
func NewConstraintID() ConstraintID {
	return ConstraintID(uuid.Must(uuid.NewV7()).String())
}

// NewEvaluationID generates a UUIDv7 evaluation identifier.
func NewEvaluationID() EvaluationID {
	return EvaluationID(uuid.Must(uuid.NewV7()).String())
}

// ParseFamilyID validates and converts a string to FamilyID.
// Rejects malformed UUIDs to prevent invalid IDs from reaching the catalog.
func ParseFamilyID(s string) (FamilyID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return FamilyID(s), nil
}

// IDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func IDTime(id string) time.Time {
	u, err := uuid.Parse(id)
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}

// NewAPIKeyID generates a UUIDv7 API key record identifier.
func NewAPIKeyID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewSecretID generates a 32 hex char HMAC secret identifier (UUIDv7
// without hyphens), the form embedded in API keys.
func NewSecretID() string {
	u := uuid.Must(uuid.NewV7())
	return hex.EncodeToString(u[:])
}
