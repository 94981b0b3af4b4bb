// Package metrics exposes Prometheus collectors for the HTTP layer, the mock
// builder and upstream calls.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hylode/hyui/internal/mock"
	"github.com/hylode/hyui/internal/platform/middleware"
)

const namespace = "hyui"

// Metrics owns a private registry so tests and multiple servers do not
// collide on the default one. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPActiveRequests    prometheus.Gauge
	MockRoutesTotal       *prometheus.CounterVec
	MockRouteFailures     *prometheus.CounterVec
	MockRowsInserted      *prometheus.CounterVec
	MockBuildDuration     prometheus.Histogram
	UpstreamRequestsTotal *prometheus.CounterVec
	CacheLookupsTotal     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPActiveRequests: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Number of requests being served",
		}),
		MockRoutesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mock_routes_total",
			Help:      "Mock routes processed, by result",
		}, []string{"result"}),
		MockRouteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mock_route_failures_total",
			Help:      "Mock route failures, by route and error kind",
		}, []string{"route", "kind"}),
		MockRowsInserted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mock_rows_inserted_total",
			Help:      "Rows inserted into the mock store",
		}, []string{"route"}),
		MockBuildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mock_build_duration_seconds",
			Help:      "Duration of full mock store builds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		UpstreamRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests to upstream services, by result",
		}, []string{"upstream", "result"}),
		CacheLookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_cache_lookups_total",
			Help:      "Upstream response cache lookups, by result",
		}, []string{"result"}),
	}
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request counts and latency by route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			m.HTTPActiveRequests.Inc()
			start := time.Now()

			err := next(c)

			m.HTTPActiveRequests.Dec()
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.RecordHTTPRequest(c.Request().Method, route, middleware.ResponseStatus(c, err), time.Since(start))
			return err
		}
	}
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RouteLoaded implements mock.Observer.
func (m *Metrics) RouteLoaded(route string, rows int) {
	if m == nil {
		return
	}
	m.MockRoutesTotal.WithLabelValues("loaded").Inc()
	m.MockRowsInserted.WithLabelValues(route).Add(float64(rows))
}

// RouteFailed implements mock.Observer.
func (m *Metrics) RouteFailed(route string, kind mock.ErrorKind) {
	if m == nil {
		return
	}
	m.MockRoutesTotal.WithLabelValues("failed").Inc()
	m.MockRouteFailures.WithLabelValues(route, string(kind)).Inc()
}

// BuildFinished implements mock.Observer.
func (m *Metrics) BuildFinished(d time.Duration) {
	if m == nil {
		return
	}
	m.MockBuildDuration.Observe(d.Seconds())
}

// UpstreamRequest records the outcome of an upstream call.
func (m *Metrics) UpstreamRequest(upstream, result string) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(upstream, result).Inc()
}

// CacheLookup records an upstream cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}
