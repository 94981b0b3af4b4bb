// Package mock builds the development database that stands in for the live
// hospital systems. For every route it locates a recorded dataset, loads it,
// normalizes missing values and reloads the route's table from scratch.
package mock

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hylode/hyui/internal/schema"
)

// Config controls where datasets are found and which routes are built.
type Config struct {
	// Root holds one directory per route.
	Root string
	// Routes are built in order when Build is called without routes.
	Routes []string
	// Fixtures supply JSON datasets for routes with no archive or snapshot.
	Fixtures map[string]Fixture
}

// Observer receives build outcomes, e.g. for metrics.
type Observer interface {
	RouteLoaded(route string, rows int)
	RouteFailed(route string, kind ErrorKind)
	BuildFinished(d time.Duration)
}

// Builder loads recorded datasets into a destination store.
type Builder struct {
	cfg      Config
	registry *schema.Registry
	logger   zerolog.Logger
	observer Observer
}

func NewBuilder(cfg Config, registry *schema.Registry, logger zerolog.Logger) *Builder {
	return &Builder{
		cfg:      cfg,
		registry: registry,
		logger:   logger.With().Str("component", "mock-builder").Logger(),
	}
}

// WithObserver attaches an observer and returns the builder.
func (b *Builder) WithObserver(o Observer) *Builder {
	b.observer = o
	return b
}

// Routes returns the configured routes.
func (b *Builder) Routes() []string {
	return append([]string(nil), b.cfg.Routes...)
}

// Registry returns the schema registry the builder validates against.
func (b *Builder) Registry() *schema.Registry {
	return b.registry
}

// Locate finds the dataset for route under the configured root.
func (b *Builder) Locate(route string) (DatasetSource, error) {
	var fixture *Fixture
	if f, ok := b.cfg.Fixtures[route]; ok {
		fixture = &f
	}
	return Locate(b.cfg.Root, route, fixture)
}

// RouteResult describes a route that loaded.
type RouteResult struct {
	Route  string     `json:"route"`
	Source SourceKind `json:"source"`
	Path   string     `json:"path"`
	Rows   int        `json:"rows"`
}

// RouteFailure describes a route that did not load.
type RouteFailure struct {
	Route   string    `json:"route"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"error"`
	Err     error     `json:"-"`
}

// Report summarizes one Build.
type Report struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Loaded     []RouteResult  `json:"loaded"`
	Failed     []RouteFailure `json:"failed"`
}

// OK reports whether every route loaded.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// Rows returns the number of rows loaded for route.
func (r *Report) Rows(route string) (int, bool) {
	for _, l := range r.Loaded {
		if l.Route == route {
			return l.Rows, true
		}
	}
	return 0, false
}

// Failure returns the failure recorded for route, if any.
func (r *Report) Failure(route string) (RouteFailure, bool) {
	for _, f := range r.Failed {
		if f.Route == route {
			return f, true
		}
	}
	return RouteFailure{}, false
}

// Build loads each route in order into store. A route that fails is logged
// and recorded in the report; the remaining routes are still built. With no
// routes the configured routes are used.
func (b *Builder) Build(ctx context.Context, store Store, routes []string) *Report {
	if len(routes) == 0 {
		routes = b.cfg.Routes
	}
	report := &Report{
		StartedAt: time.Now().UTC(),
		Loaded:    []RouteResult{},
		Failed:    []RouteFailure{},
	}

	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, RouteFailure{
				Route: route, Kind: StoreFailure, Message: err.Error(), Err: err,
			})
			continue
		}

		start := time.Now()
		res, err := b.BuildRoute(ctx, store, route)
		if err != nil {
			kind := KindOf(err)
			b.logger.Error().Err(err).
				Str("route", route).
				Str("error_kind", string(kind)).
				Msg("mock route failed")
			report.Failed = append(report.Failed, RouteFailure{
				Route: route, Kind: kind, Message: err.Error(), Err: err,
			})
			if b.observer != nil {
				b.observer.RouteFailed(route, kind)
			}
			continue
		}

		b.logger.Info().
			Str("route", route).
			Str("source", string(res.Source)).
			Int("rows", res.Rows).
			Dur("duration", time.Since(start)).
			Msg("mock route loaded")
		report.Loaded = append(report.Loaded, res)
		if b.observer != nil {
			b.observer.RouteLoaded(route, res.Rows)
		}
	}

	report.FinishedAt = time.Now().UTC()
	if b.observer != nil {
		b.observer.BuildFinished(report.FinishedAt.Sub(report.StartedAt))
	}
	return report
}

// BuildRoute runs locate, load, normalize, create and insert for one route.
func (b *Builder) BuildRoute(ctx context.Context, store Store, route string) (RouteResult, error) {
	table, err := b.registry.Lookup(route)
	if err != nil {
		return RouteResult{}, err
	}

	src, err := b.Locate(route)
	if err != nil {
		return RouteResult{}, err
	}

	ds, err := Load(ctx, src)
	if err != nil {
		return RouteResult{}, err
	}

	n, err := Replace(ctx, store, table, Normalize(ds))
	if err != nil {
		return RouteResult{}, err
	}
	return RouteResult{Route: route, Source: src.Kind, Path: src.Path, Rows: n}, nil
}
