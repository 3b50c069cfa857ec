package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ridi/hms/internal/platform/auth"
)

// Logger writes one access line per request and attaches a request-scoped
// logger to the context (zerolog.Ctx). Health probes log at debug, client
// errors at warn, server errors at error. The caller's user id and role are
// added once authentication has run.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid, _ := c.Get("request_id").(string)

			reqLogger := logger.With().Str("request_id", rid).Logger()
			c.SetRequest(c.Request().WithContext(reqLogger.WithContext(c.Request().Context())))

			err := next(c)
			if err != nil {
				// Write the error response now so the logged status is final.
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			evt := accessEvent(&reqLogger, req.URL.Path, status)
			if err != nil {
				evt = evt.Err(err)
			}
			if p := auth.PrincipalFromContext(req.Context()); p.Authenticated() {
				evt = evt.Str("user_id", p.UserID).Str("role", p.Role)
			}
			evt.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", c.Path()).
				Int("status", status).
				Int64("bytes_out", c.Response().Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")
			return nil
		}
	}
}

func accessEvent(l *zerolog.Logger, path string, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return l.Error()
	case status >= 400:
		return l.Warn()
	case strings.HasPrefix(path, "/health"):
		return l.Debug()
	default:
		return l.Info()
	}
}
