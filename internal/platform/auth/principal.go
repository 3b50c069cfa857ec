package auth

import "context"

// Roles assigned to application users. RoleAdmin is the elevated role.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the signed-in caller. It is passed explicitly into every flow
// that makes a permission decision.
type Principal struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}

// Anonymous is the zero principal; every policy check denies it.
var Anonymous = Principal{}

func (p Principal) Authenticated() bool {
	return p.UserID != "" && p.Role != ""
}

// Can evaluates the policy for the principal's role.
func (p Principal) Can(action Action) Decision {
	return Evaluate(p.Role, action)
}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal set by the auth middleware, or
// Anonymous when none was set.
func PrincipalFromContext(ctx context.Context) Principal {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok {
		return Anonymous
	}
	return p
}
