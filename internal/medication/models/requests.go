package models

import (
	platformstrings "carehub/pkg/platform/strings"
	"carehub/pkg/validation"
)

// MedicationRequest is the body of POST /medications and PUT /medications/{id}.
type MedicationRequest struct {
	Name      string   `json:"medicationName" validate:"required,notblank,max=200"`
	Dosage    string   `json:"dosage" validate:"required,notblank,max=200"`
	Frequency string   `json:"frequency" validate:"required,notblank,max=200"`
	Reminders []string `json:"reminders" validate:"omitempty,dive,datetime=15:04"`
}

// Normalize trims text fields and drops empty or repeated reminders.
func (r *MedicationRequest) Normalize() {
	platformstrings.TrimStrings(&r.Name, &r.Dosage, &r.Frequency)
	r.Reminders = platformstrings.DedupeAndTrim(r.Reminders)
}

func (r *MedicationRequest) Validate() error {
	if err := validation.CheckSliceCount("reminders", len(r.Reminders), validation.MaxReminders); err != nil {
		return err
	}
	return validation.Validate(r)
}
