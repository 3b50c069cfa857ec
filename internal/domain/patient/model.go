package patient

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Patient maps to the patients table. It is the root entity referenced by
// appointments, prescriptions, vitals, lab orders and payments.
type Patient struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	Name             string      `db:"name" json:"name"`
	Email            *string     `db:"email" json:"email,omitempty"`
	Mobile           *string     `db:"mobile" json:"mobile,omitempty"`
	Gender           *string     `db:"gender" json:"gender,omitempty"`
	BloodGroup       *string     `db:"blood_group" json:"blood_group,omitempty"`
	BirthDate        pgtype.Date `db:"birth_date" json:"birth_date"`
	Address          *string     `db:"address" json:"address,omitempty"`
	EmergencyContact *string     `db:"emergency_contact" json:"emergency_contact,omitempty"`
	MedicalHistory   *string     `db:"medical_history" json:"medical_history,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// SearchParams narrows a patient listing. Query matches name or mobile.
type SearchParams struct {
	Query string
}
