package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/db"
)

// UserStorePG resolves application roles from the users table.
type UserStorePG struct {
	q db.Querier
}

func NewUserStorePG(q db.Querier) *UserStorePG {
	return &UserStorePG{q: q}
}

// ResolveRole returns the role recorded for authID. A first sign-in creates
// the row with the limited "user" role.
func (s *UserStorePG) ResolveRole(ctx context.Context, authID, email string) (string, error) {
	var role string
	err := s.q.QueryRow(ctx, `SELECT role FROM users WHERE auth_id = $1`, authID).Scan(&role)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("lookup user role: %w", err)
	}

	err = s.q.QueryRow(ctx, `
		INSERT INTO users (auth_id, email, role) VALUES ($1, $2, $3)
		ON CONFLICT (auth_id) DO UPDATE SET auth_id = EXCLUDED.auth_id
		RETURNING role`, authID, nullable(email), RoleUser).Scan(&role)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return role, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
