package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	authmodels "carehub/internal/auth/models"
	medmodels "carehub/internal/medication/models"
	id "carehub/pkg/domain"
)

// TestIDs provides pre-generated IDs for deterministic test data.
var TestIDs = struct {
	UserID1       id.UserID
	UserID2       id.UserID
	MedicationID1 id.MedicationID
	MedicationID2 id.MedicationID
}{
	UserID1:       id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2:       id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	MedicationID1: id.MedicationID(uuid.MustParse("dddd0000-0000-0000-0000-000000000001")),
	MedicationID2: id.MedicationID(uuid.MustParse("dddd0000-0000-0000-0000-000000000002")),
}

// FixedTime is a stable timestamp for tests that compare CreatedAt values.
var FixedTime = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

// UserBuilder provides a fluent interface for building test users.
type UserBuilder struct {
	user *authmodels.User
}

// NewUserBuilder creates a new UserBuilder with sensible defaults.
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		user: &authmodels.User{
			ID:           id.NewUserID(),
			FirstName:    "Test",
			LastName:     "User",
			Email:        "test@example.com",
			IDNumber:     "9001015009087",
			PhoneNumber:  "+27821234567",
			Address:      "1 Main Road",
			PasswordHash: "$2a$04$abcdefghijklmnopqrstuuJ6i5Y4YwW2rO7oqW5bKz8hXfXkMZb1e",
			CreatedAt:    FixedTime,
		},
	}
}

func (b *UserBuilder) WithID(userID id.UserID) *UserBuilder {
	b.user.ID = userID
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

func (b *UserBuilder) WithName(firstName, lastName string) *UserBuilder {
	b.user.FirstName = firstName
	b.user.LastName = lastName
	return b
}

func (b *UserBuilder) WithIDNumber(idNumber string) *UserBuilder {
	b.user.IDNumber = idNumber
	return b
}

func (b *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	b.user.PasswordHash = hash
	return b
}

func (b *UserBuilder) Build() *authmodels.User {
	u := *b.user
	return &u
}

// MedicationBuilder provides a fluent interface for building test medications.
type MedicationBuilder struct {
	med *medmodels.Medication
}

// NewMedicationBuilder creates a new MedicationBuilder with sensible defaults.
func NewMedicationBuilder() *MedicationBuilder {
	return &MedicationBuilder{
		med: &medmodels.Medication{
			ID:        id.NewMedicationID(),
			UserID:    TestIDs.UserID1,
			Name:      "Metformin",
			Dosage:    "500mg",
			Frequency: "twice daily",
			Reminders: []string{"08:00", "20:00"},
			CreatedAt: FixedTime,
		},
	}
}

func (b *MedicationBuilder) WithID(medID id.MedicationID) *MedicationBuilder {
	b.med.ID = medID
	return b
}

func (b *MedicationBuilder) WithUserID(userID id.UserID) *MedicationBuilder {
	b.med.UserID = userID
	return b
}

func (b *MedicationBuilder) WithName(name string) *MedicationBuilder {
	b.med.Name = name
	return b
}

func (b *MedicationBuilder) WithReminders(reminders ...string) *MedicationBuilder {
	b.med.Reminders = reminders
	return b
}

func (b *MedicationBuilder) CreatedAt(t time.Time) *MedicationBuilder {
	b.med.CreatedAt = t
	return b
}

func (b *MedicationBuilder) Build() *medmodels.Medication {
	return b.med.Clone()
}

// NewTestUser returns a user with unique email and id number derived from n.
func NewTestUser(n int) *authmodels.User {
	return NewUserBuilder().
		WithEmail(fmt.Sprintf("user%d@example.com", n)).
		WithIDNumber(fmt.Sprintf("ID-%06d", n)).
		Build()
}
