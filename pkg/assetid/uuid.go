package assetid

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UUID is a stable, globally unique identifier for a library or asset.
// It persists across renames and file moves and represents the logical
// entity rather than its current path or display name.
type UUID struct {
	value uuid.UUID
}

// NewUUID generates a new random UUID (v4).
func NewUUID() UUID {
	return UUID{value: uuid.New()}
}

// MustParseUUID parses a UUID from string, panicking on error.
// This is useful for test fixtures where the UUID is known valid.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(fmt.Sprintf("invalid UUID: %s: %v", s, err))
	}
	return u
}

// ParseUUID parses a UUID from string (e.g., "550e8400-e29b-41d4-a716-446655440000").
// Accepts standard UUID formats (with or without hyphens).
func ParseUUID(s string) (UUID, error) {
	if s == "" {
		return UUID{}, fmt.Errorf("UUID cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{value: u}, nil
}

// String returns the canonical UUID string in lowercase with hyphens.
func (u UUID) String() string {
	return u.value.String()
}

// IsZero returns true if this is the zero/nil UUID.
func (u UUID) IsZero() bool {
	return u.value == uuid.Nil
}

// Equal returns true if two UUIDs are equal.
func (u UUID) Equal(other UUID) bool {
	return u.value == other.value
}

// MarshalJSON implements json.Marshaler. UUIDs serialize as strings.
func (u UUID) MarshalJSON() ([]byte, error) {
	if u.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(u.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *UUID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("UUID must be a string: %w", err)
	}
	if s == "" || s == "null" {
		*u = UUID{}
		return nil
	}
	parsed, err := ParseUUID(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
