// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "carehub/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a MedicationID where a UserID is expected.
type (
	UserID       uuid.UUID
	MedicationID uuid.UUID
)

// NewUserID returns a freshly generated user identifier.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewMedicationID returns a freshly generated medication identifier.
func NewMedicationID() MedicationID { return MedicationID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, token claims, store rows).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseMedicationID(s string) (MedicationID, error) {
	id, err := parseUUID(s, "medication ID")
	return MedicationID(id), err
}

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id MedicationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id MedicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs appear as plain UUID strings in JSON.
func (id UserID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

// UnmarshalText parses a UUID string into a UserID.
func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText lets typed IDs appear as plain UUID strings in JSON.
func (id MedicationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

// UnmarshalText parses a UUID string into a MedicationID.
func (id *MedicationID) UnmarshalText(b []byte) error {
	parsed, err := ParseMedicationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// parseUUID is the shared validation logic. Nil UUIDs are rejected: no record
// is ever created with one, so a nil ID at a boundary is always malformed input.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, label+" cannot be nil")
	}
	return id, nil
}
