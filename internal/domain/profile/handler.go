package profile

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/me/profile", h.GetProfile, auth.RequireAction(auth.ActionRead))
	api.PUT("/me/profile", h.UpdateProfile, auth.RequireAction(auth.ActionWrite))
}

func (h *Handler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	prof, err := h.svc.GetProfile(ctx, auth.PrincipalFromContext(ctx))
	if err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, prof)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var prof Profile
	if err := c.Bind(&prof); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	if err := h.svc.SaveProfile(ctx, auth.PrincipalFromContext(ctx), &prof); err != nil {
		return apperr.HTTPError(err)
	}
	return c.JSON(http.StatusOK, prof)
}
