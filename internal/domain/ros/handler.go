package ros

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hylode/hyui/internal/platform/db"
)

type Handler struct {
	repo        RosRepository
	departments []string
}

func NewHandler(repo RosRepository, departments []string) *Handler {
	return &Handler{repo: repo, departments: departments}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/ros", h.ListRos)
	g.GET("/ros/", h.ListRos)
}

func (h *Handler) ListRos(c echo.Context) error {
	departments := c.QueryParams()["departments"]
	if len(departments) == 0 {
		departments = h.departments
	}
	items, err := h.repo.ListByDepartments(c.Request().Context(), departments)
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}
