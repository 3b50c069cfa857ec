package appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Appointment maps to the appointments table. PatientName and DoctorName are
// joined for display and ignored on write.
type Appointment struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	PatientID   uuid.UUID   `db:"patient_id" json:"patient_id"`
	DoctorID    uuid.UUID   `db:"doctor_id" json:"doctor_id"`
	Date        pgtype.Date `db:"appointment_date" json:"appointment_date"`
	Time        string      `db:"appointment_time" json:"appointment_time"`
	Type        string      `db:"type" json:"type"`
	Status      string      `db:"status" json:"status"`
	Notes       *string     `db:"notes" json:"notes,omitempty"`
	PatientName string      `json:"patient_name,omitempty"`
	DoctorName  string      `json:"doctor_name,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// Filter narrows an appointment listing. Zero values are ignored.
type Filter struct {
	Date      pgtype.Date
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    string
}
