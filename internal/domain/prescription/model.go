package prescription

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Medicine is one line of a prescription. The list is stored as JSONB and
// keeps the order the prescriber entered it in.
type Medicine struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

// Prescription maps to the prescriptions table.
type Prescription struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	PatientID        uuid.UUID   `db:"patient_id" json:"patient_id"`
	DoctorID         uuid.UUID   `db:"doctor_id" json:"doctor_id"`
	PrescriptionDate pgtype.Date `db:"prescription_date" json:"prescription_date"`
	Diagnosis        *string     `db:"diagnosis" json:"diagnosis,omitempty"`
	Symptoms         *string     `db:"symptoms" json:"symptoms,omitempty"`
	Medicines        []Medicine  `db:"medicines" json:"medicines"`
	Notes            *string     `db:"notes" json:"notes,omitempty"`
	FollowUpDate     pgtype.Date `db:"follow_up_date" json:"follow_up_date"`
	PatientName      string      `json:"patient_name,omitempty"`
	DoctorName       string      `json:"doctor_name,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}
