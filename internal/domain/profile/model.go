package profile

import "time"

// Profile maps to the user_profiles table. It belongs to the signed-in user
// and is keyed by their identity-provider subject.
type Profile struct {
	UserID    string    `db:"auth_id" json:"user_id"`
	FullName  *string   `db:"full_name" json:"full_name,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
