// Package status serves liveness probes and the state of the mock store.
package status

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hylode/hyui/internal/mock"
)

// PingLayout renders timestamps as YYYY-MM-DD HH:mm:ss.SSS.
const PingLayout = "2006-01-02 15:04:05.000"

// ReportSource yields the latest mock build report. *mock.Refresher
// satisfies it.
type ReportSource interface {
	Last() *mock.Report
}

type Handler struct {
	reports   ReportSource
	now       func() time.Time
	slowDelay time.Duration
}

// NewHandler returns the status handler. reports may be nil when the mock
// store is not built by this process.
func NewHandler(reports ReportSource) *Handler {
	return &Handler{reports: reports, now: time.Now, slowDelay: 5 * time.Second}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.GET("/ping/fast", h.PingFast)
	e.GET("/ping/slow", h.PingSlow)
	e.GET("/mock/status", h.MockStatus)
}

func (h *Handler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"ping": "pong"})
}

func (h *Handler) PingFast(c echo.Context) error {
	return c.JSON(http.StatusOK, h.now().UTC().Format(PingLayout))
}

// PingSlow answers with the time the request arrived, after a delay.
func (h *Handler) PingSlow(c echo.Context) error {
	stamp := h.now().UTC().Format(PingLayout)
	timer := time.NewTimer(h.slowDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return c.JSON(http.StatusOK, stamp)
	case <-c.Request().Context().Done():
		return c.Request().Context().Err()
	}
}

type mockStatus struct {
	Built bool `json:"built"`
	OK    bool `json:"ok"`
	*mock.Report
}

func (h *Handler) MockStatus(c echo.Context) error {
	var report *mock.Report
	if h.reports != nil {
		report = h.reports.Last()
	}
	if report == nil {
		return c.JSON(http.StatusOK, mockStatus{})
	}
	return c.JSON(http.StatusOK, mockStatus{Built: true, OK: report.OK(), Report: report})
}
