package census

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hylode/hyui/internal/platform/db"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/census", h.ListCensus)
	g.GET("/census/", h.ListCensus)
}

func (h *Handler) ListCensus(c echo.Context) error {
	items, err := h.svc.ListCensus(c.Request().Context(), c.QueryParams()["departments"])
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}
