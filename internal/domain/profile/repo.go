package profile

import "context"

type Repository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	// Upsert creates the profile or replaces its fields.
	Upsert(ctx context.Context, p *Profile) error
}
