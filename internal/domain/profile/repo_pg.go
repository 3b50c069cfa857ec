package profile

import (
	"context"

	"github.com/ridi/hms/internal/platform/db"
)

const entity = "profile"

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

func (r *repoPG) Get(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := r.q.QueryRow(ctx, `
		SELECT auth_id, full_name, phone, address, created_at, updated_at
		FROM user_profiles WHERE auth_id = $1`, userID,
	).Scan(&p.UserID, &p.FullName, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, db.Translate(err, "get", entity)
	}
	return &p, nil
}

func (r *repoPG) Upsert(ctx context.Context, p *Profile) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO user_profiles (auth_id, full_name, phone, address)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (auth_id) DO UPDATE
		SET full_name = EXCLUDED.full_name, phone = EXCLUDED.phone,
			address = EXCLUDED.address, updated_at = NOW()
		RETURNING created_at, updated_at`,
		p.UserID, p.FullName, p.Phone, p.Address,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return db.Translate(err, "upsert", entity)
}
