package sitrep

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hylode/hyui/internal/platform/baserow"
	"github.com/hylode/hyui/internal/platform/upstream"
)

// ErrInvalidPayload marks an upstream response that does not decode into
// the expected rows.
var ErrInvalidPayload = errors.New("invalid upstream payload")

// Handler serves the live sitrep routes.
type Handler struct {
	beds BedRepository
	live LiveRepository
}

func NewHandler(beds BedRepository, live LiveRepository) *Handler {
	return &Handler{beds: beds, live: live}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/sitrep/beds/", h.GetBeds)
	g.PATCH("/sitrep/beds", h.UpdateBed)
	g.GET("/sitrep/census/", h.GetCensus)
	g.GET("/sitrep/live/:ward/ui/", h.GetLiveUI)
}

func (h *Handler) GetBeds(c echo.Context) error {
	department := c.QueryParam("department")
	if department == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "department is required")
	}
	items, err := h.beds.BedsByDepartment(c.Request().Context(), department)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetCensus sends the caller to the census route for the department.
func (h *Handler) GetCensus(c echo.Context) error {
	department := c.QueryParam("department")
	if department == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "department is required")
	}
	q := url.Values{"departments": {department}}
	return c.Redirect(http.StatusTemporaryRedirect, "/census/?"+q.Encode())
}

func (h *Handler) GetLiveUI(c echo.Context) error {
	items, err := h.live.LiveUI(c.Request().Context(), c.Param("ward"))
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// UpdateBed handles PATCH /sitrep/beds?table_id=&row_id= with the changed
// fields as the body.
func (h *Handler) UpdateBed(c echo.Context) error {
	tableID, err := strconv.Atoi(c.QueryParam("table_id"))
	if err != nil || tableID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "table_id must be a positive integer")
	}
	rowID, err := strconv.Atoi(c.QueryParam("row_id"))
	if err != nil || rowID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "row_id must be a positive integer")
	}
	var data map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "body must be a JSON object")
	}
	if len(data) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}
	if err := h.beds.UpdateBed(c.Request().Context(), tableID, rowID, data); err != nil {
		return upstreamError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func upstreamError(err error) error {
	if errors.Is(err, baserow.ErrUnknownTable) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error()).SetInternal(err)
	}
	return upstream.HTTPError(err)
}
