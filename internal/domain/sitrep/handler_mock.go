package sitrep

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hylode/hyui/internal/domain/census"
	"github.com/hylode/hyui/internal/platform/db"
)

// MockHandler serves the sitrep routes from fixed rows and the mock store.
type MockHandler struct {
	live LiveRepository
}

func NewMockHandler(live LiveRepository) *MockHandler {
	return &MockHandler{live: live}
}

func (h *MockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/sitrep/beds/", h.GetBeds)
	g.GET("/sitrep/census/", h.GetCensus)
	g.GET("/sitrep/live/:ward/ui/", h.GetLiveUI)
}

func strp(s string) *string { return &s }

func (h *MockHandler) GetBeds(c echo.Context) error {
	if c.QueryParam("department") == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "department is required")
	}
	order := Number(3)
	opt := []Option{{ID: 1, Value: "Option", Color: "light-blue"}}
	return c.JSON(http.StatusOK, []BedRow{{
		LocationString: "location_a",
		BedFunctional:  opt,
		BedPhysical:    opt,
		UnitOrder:      &order,
		BedID:          strp("a-b"),
		Room:           strp("SR-room"),
	}})
}

func (h *MockHandler) GetCensus(c echo.Context) error {
	if c.QueryParam("department") == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "department is required")
	}
	locationID := int64(2)
	modified := time.Date(2022, 1, 2, 3, 4, 0, 0, time.UTC)
	return c.JSON(http.StatusOK, []census.CensusRow{{
		Encounter:      1013378594,
		LocationString: strp("location_a"),
		DateOfBirth:    strp("2001-02-03"),
		MRN:            strp("abc"),
		Firstname:      strp("Santa"),
		Lastname:       strp("Claus"),
		ModifiedAt:     &modified,
		LocationID:     &locationID,
		Department:     strp("My Department"),
	}})
}

func (h *MockHandler) GetLiveUI(c echo.Context) error {
	items, err := h.live.LiveUI(c.Request().Context(), c.Param("ward"))
	if err != nil {
		return db.HTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}
