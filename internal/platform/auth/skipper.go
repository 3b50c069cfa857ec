package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type route struct {
	method string
	path   string
}

// Health probes and stored documents are reachable without a token. Stored
// documents are linked from lab orders and invoices by public URL.
var publicRoutes = map[route]struct{}{
	{http.MethodGet, "/health"}:                {},
	{http.MethodGet, "/health/db"}:             {},
	{http.MethodGet, "/storage/:bucket/:name"}: {},
}

// AuthSkipper is the JWT middleware skipper. It matches on the registered
// route pattern, not the raw URL.
func AuthSkipper(c echo.Context) bool {
	return IsPublic(c.Request().Method, c.Path())
}

func IsPublic(method, path string) bool {
	_, ok := publicRoutes[route{method: method, path: path}]
	return ok
}
