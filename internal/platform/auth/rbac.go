package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAction returns middleware that consults the policy for the caller's
// role before the handler runs.
func RequireAction(action Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFromContext(c.Request().Context())
			if d := p.Can(action); !d.Allowed {
				status := http.StatusForbidden
				if !p.Authenticated() {
					status = http.StatusUnauthorized
				}
				return echo.NewHTTPError(status, d.Reason)
			}
			return next(c)
		}
	}
}

// Authorize checks action for the principal stored on ctx and returns a
// permission error when denied.
func Authorize(ctx context.Context, action Action) error {
	return PrincipalFromContext(ctx).Can(action).Err()
}
