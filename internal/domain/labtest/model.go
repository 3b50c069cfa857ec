package labtest

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Order statuses. Transitions between them are unconstrained.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Test is an entry in the lab test catalog (lab_tests table).
type Test struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Price       *float64  `db:"price" json:"price,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Order is a test ordered for a patient (patient_lab_tests table). The joined
// names are read-only.
type Order struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	PatientID   uuid.UUID   `db:"patient_id" json:"patient_id"`
	DoctorID    *uuid.UUID  `db:"doctor_id" json:"doctor_id,omitempty"`
	TestID      uuid.UUID   `db:"test_id" json:"test_id"`
	TestDate    pgtype.Date `db:"test_date" json:"test_date"`
	Status      string      `db:"status" json:"status"`
	Notes       *string     `db:"notes" json:"notes,omitempty"`
	ReportURL   *string     `db:"report_url" json:"report_url,omitempty"`
	TestName    string      `json:"test_name,omitempty"`
	PatientName string      `json:"patient_name,omitempty"`
	DoctorName  string      `json:"doctor_name,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// OrderFilter narrows an order listing. Query matches patient or test name.
type OrderFilter struct {
	PatientID uuid.UUID
	Status    string
	Query     string
}
