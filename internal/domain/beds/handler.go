package beds

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
	g.GET("/beds", h.ListBeds)
	g.GET("/beds/", h.ListBeds)
}

// ListBeds handles GET /beds/?departments=..&locations=..
func (h *Handler) ListBeds(c echo.Context) error {
	q := c.QueryParams()
	items, err := h.svc.ListBeds(c.Request().Context(), Filter{
		Departments: q["departments"],
		Locations:   q["locations"],
	})
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}
