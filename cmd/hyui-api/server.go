package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/hylode/hyui/internal/config"
	"github.com/hylode/hyui/internal/domain/beds"
	"github.com/hylode/hyui/internal/domain/census"
	"github.com/hylode/hyui/internal/domain/electives"
	"github.com/hylode/hyui/internal/domain/hymind"
	"github.com/hylode/hyui/internal/domain/ros"
	"github.com/hylode/hyui/internal/domain/sitrep"
	"github.com/hylode/hyui/internal/mock"
	"github.com/hylode/hyui/internal/platform/baserow"
	"github.com/hylode/hyui/internal/platform/cache"
	"github.com/hylode/hyui/internal/platform/db"
	"github.com/hylode/hyui/internal/platform/logging"
	"github.com/hylode/hyui/internal/platform/metrics"
	"github.com/hylode/hyui/internal/platform/middleware"
	"github.com/hylode/hyui/internal/platform/status"
	"github.com/hylode/hyui/internal/platform/upstream"
	"github.com/hylode/hyui/internal/schema"
)

// server holds everything the HTTP layer is wired from. warehouse and cache
// are nil when not configured.
type server struct {
	cfg       *config.Config
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	warehouse *db.Warehouse
	store     *sql.DB
	refresher *mock.Refresher
	cache     cache.Cache
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		App:    "hyui-api",
		Env:    cfg.Env,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	s := &server{cfg: cfg, logger: logger, metrics: metrics.New()}

	// Warehouse
	if cfg.WarehouseURL != "" {
		s.warehouse, err = db.OpenWarehouse(ctx, cfg.WarehouseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to warehouse")
		}
		defer s.warehouse.Close()
		logger.Info().Msg("connected to warehouse")
	} else {
		logger.Warn().Msg("WAREHOUSE_URL not set, live warehouse routes will answer 503")
	}

	// Mock store
	s.store, err = db.OpenSQLite(cfg.MockDBURL)
	if err != nil {
		logger.Fatal().Err(err).Str("url", cfg.MockDBURL).Msg("failed to open mock store")
	}
	defer s.store.Close()

	// Upstream cache
	if cfg.RedisURL != "" {
		rc, err := cache.Dial(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rc.Close()
		s.cache = rc
		logger.Info().Dur("ttl", cfg.UpstreamCacheTTL).Msg("upstream cache enabled")
	}

	builder, err := newMockBuilder(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Strs("routes", cfg.MockRoutes).Msg("invalid MOCK_ROUTES")
	}
	builder.WithObserver(s.metrics)

	s.refresher = mock.NewRefresher(builder, s.store, nil, mock.RefresherOptions{
		Schedule: cfg.MockRefreshSchedule,
		Watch:    cfg.MockWatch,
	}, logger)

	if cfg.Env == "development" {
		report := s.refresher.Rebuild(ctx)
		logger.Info().
			Int("loaded", len(report.Loaded)).
			Int("failed", len(report.Failed)).
			Msg("mock store built")
	}
	if err := s.refresher.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start mock refresher")
	}
	defer s.refresher.Stop()

	e := s.echo()

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// echo builds the router: status endpoints at the root, live routers at "/"
// and their mock twins under "/mock".
func (s *server) echo() *echo.Echo {
	cfg := s.cfg

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(s.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(s.logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.BodyLimit("1M"))
	// Longer than /ping/slow so the health probe completes.
	e.Use(middleware.RequestTimeout(30 * time.Second))
	if cfg.MetricsEnabled {
		e.Use(s.metrics.Middleware())
		e.GET("/metrics", s.metrics.Handler())
	}

	var pool *pgxpool.Pool
	var warehouse *sql.DB
	if s.warehouse != nil {
		pool = s.warehouse.Pool
		warehouse = s.warehouse.DB
	}
	e.GET("/health/db", db.HealthHandler(pool, s.store))
	status.NewHandler(s.refresher).RegisterRoutes(e)

	hycastle := s.upstream("hycastle", cfg.HyCastleURL, nil)
	hymindAPI := s.upstream("hymind", cfg.HyMindURL, nil)
	baserowAPI := s.upstream("baserow", cfg.BaserowURL, map[string]string{
		echo.HeaderAuthorization: "Token " + cfg.BaserowToken,
	})
	tables := map[string]int{}
	if cfg.BaserowBedsTableID > 0 {
		tables["beds"] = cfg.BaserowBedsTableID
	}
	bedsTable := baserow.New(baserowAPI, tables)

	// Live
	live := e.Group("")
	beds.NewHandler(beds.NewService(beds.NewBedRepoPG(warehouse), cfg.DefaultDepartments)).RegisterRoutes(live)
	census.NewHandler(census.NewService(census.NewCensusRepoPG(warehouse), cfg.DefaultDepartments)).RegisterRoutes(live)
	electives.NewHandler(electives.NewService(electives.NewElectiveRepoPG(warehouse))).RegisterRoutes(live)
	ros.NewHandler(ros.NewRosRepoPG(warehouse), cfg.DefaultDepartments).RegisterRoutes(live)
	sitrep.NewHandler(
		sitrep.NewBedRepoBaserow(bedsTable),
		sitrep.NewLiveRepoHyCastle(hycastle, s.logger),
	).RegisterRoutes(live)
	hymind.NewHandler(hymind.NewHyMindSource(hymindAPI)).RegisterRoutes(live)

	// Mock
	mocked := e.Group("/mock", middleware.ReadLock(s.refresher.RLocker()))
	beds.NewHandler(beds.NewService(beds.NewBedRepoMock(s.store), cfg.DefaultDepartments)).RegisterRoutes(mocked)
	census.NewHandler(census.NewService(census.NewCensusRepoMock(s.store), cfg.DefaultDepartments)).RegisterRoutes(mocked)
	electives.NewHandler(electives.NewRelativeService(electives.NewElectiveRepoMock(s.store))).RegisterRoutes(mocked)
	ros.NewHandler(ros.NewRosRepoMock(s.store), cfg.DefaultDepartments).RegisterRoutes(mocked)
	sitrep.NewMockHandler(sitrep.NewLiveRepoMock(s.store)).RegisterRoutes(mocked)
	hymind.NewHandler(hymind.NewMockSource(s.store, cfg.IcuDischargeFixture, cfg.TapEmergencyFixture)).RegisterRoutes(mocked)

	return e
}

func (s *server) upstream(name, baseURL string, headers map[string]string) *upstream.Client {
	return upstream.New(upstream.Options{
		Name:       name,
		BaseURL:    baseURL,
		Timeout:    s.cfg.UpstreamTimeout,
		RetryCount: 2,
		Headers:    headers,
		Cache:      s.cache,
		CacheTTL:   s.cfg.UpstreamCacheTTL,
		Recorder:   s.metrics,
		Logger:     s.logger,
	})
}

// mockRoutes returns the configured routes, or every registered route.
// newMockBuilder wires the builder for the configured routes. Every route
// must have a registered table.
func newMockBuilder(cfg *config.Config, logger zerolog.Logger) (*mock.Builder, error) {
	registry := schema.Default()
	routes := mockRoutes(cfg)
	if err := registry.Validate(routes); err != nil {
		return nil, err
	}
	return mock.NewBuilder(mock.Config{
		Root:   cfg.MockRoutesRoot,
		Routes: routes,
		Fixtures: map[string]mock.Fixture{
			schema.RouteIcuDischarge: {Path: cfg.IcuDischargeFixture, DataPath: "data"},
		},
	}, registry, logger), nil
}

func mockRoutes(cfg *config.Config) []string {
	if len(cfg.MockRoutes) > 0 {
		return cfg.MockRoutes
	}
	return schema.Default().Routes()
}
