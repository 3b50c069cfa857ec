package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Claims are the session token claims issued by the identity provider.
// Subject carries the auth id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

type JWTConfig struct {
	Issuer   string
	Audience string
	// SigningKey is the shared HMAC secret of the identity provider.
	SigningKey []byte
	// Skipper bypasses authentication for public paths.
	Skipper func(c echo.Context) bool
}

// RoleResolver maps an auth id onto the application role.
type RoleResolver interface {
	ResolveRole(ctx context.Context, authID, email string) (string, error)
}

func JWTMiddleware(cfg JWTConfig, roles RoleResolver) echo.MiddlewareFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper != nil && cfg.Skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return cfg.SigningKey, nil
			}, opts...)
			if err != nil || !token.Valid || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := c.Request().Context()
			role, err := roles.ResolveRole(ctx, claims.Subject, claims.Email)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Str("auth_id", claims.Subject).Msg("resolve role")
				return echo.NewHTTPError(http.StatusBadGateway, "could not resolve user role")
			}

			p := Principal{UserID: claims.Subject, Email: claims.Email, Role: role}
			c.SetRequest(c.Request().WithContext(WithPrincipal(ctx, p)))
			c.Set("user_id", p.UserID)

			return next(c)
		}
	}
}

// DevAuthMiddleware is a permissive middleware for development that treats
// every request as an admin principal.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal{UserID: "dev-user", Email: "dev@localhost", Role: RoleAdmin}
			c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))
			c.Set("user_id", p.UserID)
			return next(c)
		}
	}
}
