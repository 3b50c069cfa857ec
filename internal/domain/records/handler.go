package records

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/auth"
	"github.com/ridi/hms/internal/platform/report"
)

type Handler struct {
	agg *Aggregator
}

func NewHandler(agg *Aggregator) *Handler {
	return &Handler{agg: agg}
}

// RegisterRoutes mounts the record endpoints. Permission is evaluated by the
// aggregator against the request principal.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/records", h.GetSnapshot)
	api.GET("/patients/:id/records/export", h.Export)
}

func (h *Handler) GetSnapshot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ctx := c.Request().Context()
	snap, err := h.agg.Snapshot(ctx, auth.PrincipalFromContext(ctx), id)
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) Export(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ctx := c.Request().Context()
	var buf bytes.Buffer
	if err := h.agg.Export(ctx, auth.PrincipalFromContext(ctx), id, &buf); err != nil {
		return apperr.HTTPError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="patient_complete_record_%s.pdf"`, id))
	return c.Blob(http.StatusOK, report.ContentType, buf.Bytes())
}
