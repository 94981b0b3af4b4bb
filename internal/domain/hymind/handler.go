package hymind

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hylode/hyui/internal/platform/upstream"
)

type Handler struct {
	src Source
}

func NewHandler(src Source) *Handler {
	return &Handler{src: src}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/hymind/icu/discharge", h.GetIcuDischarge)
	g.POST("/hymind/icu/tap/emergency", h.PostTapEmergency)
}

type dataResponse[T any] struct {
	Data []T `json:"data"`
}

// GetIcuDischarge handles GET /hymind/icu/discharge?ward=.
func (h *Handler) GetIcuDischarge(c echo.Context) error {
	ward := c.QueryParam("ward")
	if ward == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "ward is required")
	}
	items, err := h.src.IcuDischarge(c.Request().Context(), ward)
	if err != nil {
		return predictionError(err)
	}
	return c.JSON(http.StatusOK, dataResponse[IcuDischarge]{Data: items})
}

func (h *Handler) PostTapEmergency(c echo.Context) error {
	var req TapRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	items, err := h.src.TapEmergency(c.Request().Context(), req)
	if err != nil {
		return predictionError(err)
	}
	return c.JSON(http.StatusOK, dataResponse[ElEmTap]{Data: items})
}

func predictionError(err error) error {
	if errors.Is(err, ErrInvalidPayload) || upstream.IsFailure(err) {
		return upstream.HTTPError(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
}
