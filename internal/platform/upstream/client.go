// Package upstream is the HTTP client for the REST services behind the
// dashboard: Baserow, HyCastle and HyMind.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/hylode/hyui/internal/platform/cache"
)

var (
	ErrUpstreamStatus = errors.New("upstream returned an error status")
	ErrUnreachable    = errors.New("upstream unreachable")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Upstream string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Upstream, e.Status, e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrUpstreamStatus }

// Recorder receives call outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	UpstreamRequest(upstream, result string)
	CacheLookup(hit bool)
}

type Options struct {
	Name       string
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	Headers    map[string]string
	Cache      cache.Cache
	CacheTTL   time.Duration
	Recorder   Recorder
	Logger     zerolog.Logger
}

type Client struct {
	name     string
	baseURL  string
	http     *resty.Client
	cache    cache.Cache
	cacheTTL time.Duration
	recorder Recorder
	logger   zerolog.Logger
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")
	for k, v := range opts.Headers {
		rc.SetHeader(k, v)
	}
	return &Client{
		name:     opts.Name,
		baseURL:  baseURL,
		http:     rc,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		recorder: opts.Recorder,
		logger:   opts.Logger.With().Str("upstream", opts.Name).Logger(),
	}
}

// Configured reports whether the client has somewhere to send requests.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// Name returns the upstream label.
func (c *Client) Name() string {
	return c.name
}

// Get fetches path and returns the raw body. Successful responses are served
// from and stored in the cache when one is configured.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	key := cacheKey(http.MethodGet, c.baseURL+path, query)
	if c.cache != nil && c.cacheTTL > 0 {
		body, err := c.cache.Get(ctx, key)
		switch {
		case err == nil:
			c.record("cache_hit")
			c.cacheLookup(true)
			return body, nil
		case errors.Is(err, cache.ErrMiss):
			c.cacheLookup(false)
		default:
			c.logger.Warn().Err(err).Msg("upstream cache read failed")
		}
	}

	body, err := c.Do(ctx, http.MethodGet, path, query, nil, nil)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
			c.logger.Warn().Err(err).Msg("upstream cache write failed")
		}
	}
	return body, nil
}

// GetJSON is Get followed by decoding into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode %s: %w", c.name, path, err)
	}
	return nil
}

// Do sends a request without caching. body is encoded as JSON; out, when
// non-nil, receives the decoded response.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	req := c.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.record("error")
		return nil, fmt.Errorf("%w: %s: %s %s: %w", ErrUnreachable, c.name, method, path, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("latency", time.Since(start)).
		Msg("upstream call")

	if resp.IsError() {
		c.record("status_" + fmt.Sprint(resp.StatusCode()/100) + "xx")
		return nil, &StatusError{Upstream: c.name, Status: resp.StatusCode(), Body: truncate(resp.String(), 256)}
	}
	c.record("ok")

	raw := resp.Body()
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("%s: decode %s: %w", c.name, path, err)
		}
	}
	return raw, nil
}

func (c *Client) record(result string) {
	if c.recorder != nil {
		c.recorder.UpstreamRequest(c.name, result)
	}
}

func (c *Client) cacheLookup(hit bool) {
	if c.recorder != nil {
		c.recorder.CacheLookup(hit)
	}
}

func cacheKey(method, u string, query url.Values) string {
	if len(query) == 0 {
		return method + " " + u
	}
	return method + " " + u + "?" + query.Encode()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
