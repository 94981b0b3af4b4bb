package mock

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// RefresherOptions configures background rebuilds.
type RefresherOptions struct {
	// Schedule is a cron spec; empty disables scheduled rebuilds.
	Schedule string
	// Watch rebuilds when a route's dataset directory changes.
	Watch    bool
	Debounce time.Duration
}

// Refresher owns the mock store while the server runs. Rebuilds are
// serialized and hold the write side of a lock that readers of the store
// take through RLocker, so no request sees a table mid-reload.
type Refresher struct {
	builder *Builder
	store   Store
	routes  []string
	opts    RefresherOptions
	logger  zerolog.Logger

	mu      sync.RWMutex
	buildMu sync.Mutex

	lastMu sync.RWMutex
	last   *Report

	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
}

func NewRefresher(b *Builder, store Store, routes []string, opts RefresherOptions, logger zerolog.Logger) *Refresher {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if len(routes) == 0 {
		routes = b.Routes()
	}
	return &Refresher{
		builder: b,
		store:   store,
		routes:  routes,
		opts:    opts,
		logger:  logger.With().Str("component", "mock-refresher").Logger(),
	}
}

// RLocker returns the lock readers of the mock store hold per request.
func (r *Refresher) RLocker() sync.Locker {
	return r.mu.RLocker()
}

// Rebuild builds every route now and records the report.
func (r *Refresher) Rebuild(ctx context.Context) *Report {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	r.mu.Lock()
	report := r.builder.Build(ctx, r.store, r.routes)
	r.mu.Unlock()

	r.lastMu.Lock()
	r.last = report
	r.lastMu.Unlock()
	return report
}

// Last returns the most recent report, or nil before the first rebuild.
func (r *Refresher) Last() *Report {
	r.lastMu.RLock()
	defer r.lastMu.RUnlock()
	return r.last
}

// Start begins scheduled and file-triggered rebuilds. They stop when ctx is
// cancelled or Stop is called.
func (r *Refresher) Start(ctx context.Context) error {
	if r.opts.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(r.opts.Schedule, func() {
			r.logger.Info().Msg("scheduled mock rebuild")
			r.logReport(r.Rebuild(ctx))
		}); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", r.opts.Schedule, err)
		}
		c.Start()
		r.cronSched = c
		r.logger.Info().Str("schedule", r.opts.Schedule).Msg("mock refresh scheduled")
	}

	if r.opts.Watch {
		if err := r.startWatcher(ctx); err != nil {
			r.Stop()
			return err
		}
	}
	return nil
}

func (r *Refresher) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create dataset watcher: %w", err)
	}
	r.watcher = watcher

	watched := 0
	for _, route := range r.routes {
		dir := filepath.Join(r.builder.cfg.Root, route)
		if err := watcher.Add(dir); err != nil {
			r.logger.Warn().Err(err).Str("dir", dir).Msg("cannot watch dataset directory")
			continue
		}
		watched++
	}

	watchCtx, cancel := context.WithCancel(ctx)
	r.watchCancel = cancel

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-watchCtx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				name := event.Name
				timer = time.AfterFunc(r.opts.Debounce, func() {
					r.logger.Info().Str("file", name).Msg("dataset changed, rebuilding mock store")
					r.logReport(r.Rebuild(watchCtx))
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn().Err(err).Msg("dataset watcher error")
			}
		}
	}()

	r.logger.Info().Int("dirs", watched).Msg("watching mock datasets")
	return nil
}

func (r *Refresher) logReport(report *Report) {
	evt := r.logger.Info()
	if !report.OK() {
		evt = r.logger.Warn()
	}
	evt.Int("loaded", len(report.Loaded)).Int("failed", len(report.Failed)).Msg("mock rebuild finished")
}

// Stop tears down the scheduler and watcher.
func (r *Refresher) Stop() {
	if r.watchCancel != nil {
		r.watchCancel()
		r.watchCancel = nil
	}
	if r.watcher != nil {
		r.watcher.Close()
		r.watcher = nil
	}
	if r.cronSched != nil {
		<-r.cronSched.Stop().Done()
		r.cronSched = nil
	}
}
