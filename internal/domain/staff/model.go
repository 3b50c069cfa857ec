package staff

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Shifts a staff member can be rostered on.
const (
	ShiftMorning = "morning"
	ShiftEvening = "evening"
	ShiftNight   = "night"
)

// Member maps to the staff table.
type Member struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	Name             string      `db:"name" json:"name"`
	Email            *string     `db:"email" json:"email,omitempty"`
	Mobile           *string     `db:"mobile" json:"mobile,omitempty"`
	Shift            string      `db:"shift" json:"shift"`
	JoiningDate      pgtype.Date `db:"joining_date" json:"joining_date"`
	Address          *string     `db:"address" json:"address,omitempty"`
	EmergencyContact *string     `db:"emergency_contact" json:"emergency_contact,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}
