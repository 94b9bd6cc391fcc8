package models

import "time"

// MedicationResponse is the JSON form of a Medication.
type MedicationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"medicationName"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	Reminders []string  `json:"reminders"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewMedicationResponse(m *Medication) MedicationResponse {
	reminders := m.Reminders
	if reminders == nil {
		reminders = []string{}
	}
	return MedicationResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		Dosage:    m.Dosage,
		Frequency: m.Frequency,
		Reminders: reminders,
		CreatedAt: m.CreatedAt,
	}
}

// NewMedicationListResponse never returns nil so an empty list encodes as [].
func NewMedicationListResponse(meds []*Medication) []MedicationResponse {
	out := make([]MedicationResponse, 0, len(meds))
	for _, m := range meds {
		out = append(out, NewMedicationResponse(m))
	}
	return out
}
