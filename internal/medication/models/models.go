package models

import (
	"time"

	id "carehub/pkg/domain"
)

// Medication is one entry of a user's medication schedule. Reminders are
// wall-clock times in HH:MM form.
type Medication struct {
	ID        id.MedicationID
	UserID    id.UserID
	Name      string
	Dosage    string
	Frequency string
	Reminders []string
	CreatedAt time.Time
}

// Clone returns a deep copy so stores never share the Reminders slice with callers.
func (m *Medication) Clone() *Medication {
	if m == nil {
		return nil
	}
	c := *m
	if m.Reminders != nil {
		c.Reminders = append([]string(nil), m.Reminders...)
	}
	return &c
}
