package blobstore

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler serves stored objects by their public reference.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts GET /storage/:bucket/:name on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/storage/:bucket/:name", h.handleGet)
}

func (h *Handler) handleGet(c echo.Context) error {
	bucket, name := c.Param("bucket"), c.Param("name")
	if err := ValidateName(bucket, name); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rc, meta, err := h.store.Get(c.Request().Context(), bucket, name)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, "storage unavailable").SetInternal(err)
	}
	defer rc.Close()

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, meta.Name))
	c.Response().Header().Set("ETag", `"`+meta.Hash+`"`)
	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

// StatusFor maps store errors onto HTTP status codes for upload handlers.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidContentType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, ErrObjectNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
