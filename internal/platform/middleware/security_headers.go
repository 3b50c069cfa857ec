package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const storagePrefix = "/storage/"

// SecurityHeaders hardens API responses. Stored documents get a relaxed
// policy so the front end can frame and cache them; their names are unique
// per upload, so a cached copy never goes stale. HSTS is only sent when
// strict is true.
func SecurityHeaders(strict bool) echo.MiddlewareFunc {
	api := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Referrer-Policy":         "no-referrer",
		"Cache-Control":           "no-store",
	}
	documents := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "SAMEORIGIN",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'self'",
		"Referrer-Policy":         "no-referrer",
		"Cache-Control":           "private, max-age=86400, immutable",
	}
	if strict {
		const hsts = "max-age=31536000; includeSubDomains"
		api["Strict-Transport-Security"] = hsts
		documents["Strict-Transport-Security"] = hsts
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			set := api
			if strings.HasPrefix(c.Request().URL.Path, storagePrefix) {
				set = documents
			}
			h := c.Response().Header()
			for k, v := range set {
				h.Set(k, v)
			}
			return next(c)
		}
	}
}
