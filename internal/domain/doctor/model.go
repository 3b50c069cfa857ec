package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctors table.
type Doctor struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Email           *string   `db:"email" json:"email,omitempty"`
	Mobile          *string   `db:"mobile" json:"mobile,omitempty"`
	Specialization  *string   `db:"specialization" json:"specialization,omitempty"`
	Qualification   *string   `db:"qualification" json:"qualification,omitempty"`
	Experience      *int      `db:"experience" json:"experience,omitempty"`
	ConsultationFee *float64  `db:"consultation_fee" json:"consultation_fee,omitempty"`
	Bio             *string   `db:"bio" json:"bio,omitempty"`
	AvailableDays   *string   `db:"available_days" json:"available_days,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
