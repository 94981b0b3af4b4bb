package electives

import (
	"net/http"
	"strconv"

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
	g.GET("/electives", h.ListElectives)
	g.GET("/electives/", h.ListElectives)
}

// ListElectives handles GET /electives/?days=N.
func (h *Handler) ListElectives(c echo.Context) error {
	days := DefaultDays
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > MaxDays {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be an integer between 0 and "+strconv.Itoa(MaxDays))
		}
		days = n
	}
	items, err := h.svc.Upcoming(c.Request().Context(), days)
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}
