package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// BodyLimitConfig holds request size limits in echo's notation ("1M",
// "512K"). Upload applies to multipart requests, Default to everything else.
type BodyLimitConfig struct {
	Default string
	Upload  string
}

// UploadLimit allows a file of maxFile bytes plus 1 MiB of form overhead.
func UploadLimit(maxFile int64) string {
	return fmt.Sprintf("%dK", (maxFile+1<<20)>>10)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// BodyLimit rejects oversized bodies with 413, by Content-Length up front
// and while reading when the length is missing or wrong.
func BodyLimit(cfg BodyLimitConfig) echo.MiddlewareFunc {
	jsonLimit := echomw.BodyLimitWithConfig(echomw.BodyLimitConfig{
		Limit:   cfg.Default,
		Skipper: isMultipart,
	})
	uploadLimit := echomw.BodyLimitWithConfig(echomw.BodyLimitConfig{
		Limit:   cfg.Upload,
		Skipper: func(c echo.Context) bool { return !isMultipart(c) },
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jsonLimit(uploadLimit(next))
	}
}
