package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hylode/hyui/internal/mock"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/sitrep/live/:ward/ui/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream")
	})

	for _, path := range []string{"/sitrep/live/T03/ui/", "/sitrep/live/T06/ui/", "/fail"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/sitrep/live/:ward/ui/", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/fail", "502")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPActiveRequests))
}

func TestObserver_MockBuild(t *testing.T) {
	m := New()
	var obs mock.Observer = m

	obs.RouteLoaded("beds", 3)
	obs.RouteLoaded("census", 2)
	obs.RouteFailed("sitrep", mock.DatasetNotFound)
	obs.BuildFinished(120 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MockRoutesTotal.WithLabelValues("loaded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MockRoutesTotal.WithLabelValues("failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.MockRowsInserted.WithLabelValues("beds")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MockRouteFailures.WithLabelValues("sitrep", "DatasetNotFound")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.MockBuildDuration))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.UpstreamRequest("hycastle", "ok")
	m.CacheLookup(true)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/metrics", nil), rec)
	require.NoError(t, m.Handler()(c))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `hyui_upstream_requests_total{result="ok",upstream="hycastle"} 1`), body)
	assert.True(t, strings.Contains(body, `hyui_upstream_cache_lookups_total{result="hit"} 1`), body)
	assert.True(t, strings.Contains(body, "go_goroutines"), "go collector registered")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RouteLoaded("beds", 1)
	m.UpstreamRequest("hymind", "error")
	m.CacheLookup(false)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	called := false
	require.NoError(t, m.Middleware()(func(echo.Context) error { called = true; return nil })(c))
	assert.True(t, called)
}
