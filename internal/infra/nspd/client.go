// Package nspd is the high-level client for the NSPD public geoportal:
// feature search by free text, by coordinate point and by polygonal
// contour, with transparent retry, optional caching and tiled subdivision
// of oversized contour queries.
package nspd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gonspd/gonspd/internal/infra/cache"
	"github.com/gonspd/gonspd/internal/infra/transport"
	"github.com/gonspd/gonspd/internal/layers"
	"github.com/gonspd/gonspd/internal/search"
)

// ThemeID selects the object kind for thematic text search.
type ThemeID int

const (
	ThemeRealEstateObjects   ThemeID = 1
	ThemeCadastralDivision   ThemeID = 2
	ThemeAdministrative      ThemeID = 4
	ThemeZonesAndTerritories ThemeID = 5
	ThemeTerritorialZones    ThemeID = 7
	ThemeObjectComplexes     ThemeID = 15
)

const (
	searchPath     = "/api/geoportal/v2/search/geoportal"
	intersectsPath = "/api/geoportal/v1/intersects"
)

// Config configures a Client. The zero value is usable.
type Config struct {
	// BaseURL overrides the portal host, for tests.
	BaseURL string
	// Timeout bounds each request; zero means wait indefinitely.
	Timeout time.Duration
	// Retries is the total attempt budget per logical request (default 10).
	Retries int
	// RetryOnBlocked retries HTTP 403, for rotating-proxy deployments.
	RetryOnBlocked bool
	// ProxyURL routes requests through an http/https/socks5 proxy.
	ProxyURL string
	// FallbackIP pins the IP used when the proxy cannot resolve the
	// portal hostname; empty means resolve locally at switch time.
	FallbackIP string
	// CacheStorage enables read-through response caching when set.
	CacheStorage cache.Storage
	// CacheTTL bounds cached entries; zero keeps them indefinitely.
	CacheTTL time.Duration
	// Registry overrides the layer registry (default layers.Default()).
	Registry *layers.Registry
	// TooLarge overrides detection of the region-too-large signal.
	TooLarge transport.TooLargePredicate
	// MaxDepth bounds contour subdivision (default search.DefaultMaxDepth).
	MaxDepth int
}

// Client talks to the geoportal. Safe for concurrent use.
type Client struct {
	exec     transport.Executor
	http     *transport.HTTPExecutor
	store    cache.Storage
	registry *layers.Registry
	maxDepth int
}

// New assembles the executor stack: retrier over proxy fallback over
// optional cache over the HTTP transport.
func New(cfg Config) (*Client, error) {
	httpExec, err := transport.NewHTTPExecutor(transport.Options{
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
		ProxyURL: cfg.ProxyURL,
		TooLarge: cfg.TooLarge,
	})
	if err != nil {
		return nil, fmt.Errorf("build transport: %w", err)
	}

	var exec transport.Executor = httpExec
	if cfg.CacheStorage != nil {
		exec = cache.NewExecutor(exec, cfg.CacheStorage, cfg.CacheTTL)
	}
	exec = transport.NewProxyAdaptive(exec, httpExec, cfg.FallbackIP)
	exec = transport.NewRetrier(exec, transport.RetryConfig{
		MaxAttempts:    cfg.Retries,
		RetryOnBlocked: cfg.RetryOnBlocked,
	})

	registry := cfg.Registry
	if registry == nil {
		registry = layers.Default()
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = search.DefaultMaxDepth
	}
	return &Client{
		exec:     exec,
		http:     httpExec,
		store:    cfg.CacheStorage,
		registry: registry,
		maxDepth: maxDepth,
	}, nil
}

// Registry returns the layer registry the client resolves titles against.
func (c *Client) Registry() *layers.Registry {
	return c.registry
}

// Close releases pooled connections and the cache backend.
func (c *Client) Close() error {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			return err
		}
	}
	return c.http.Close()
}

// getJSON executes a request and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, req transport.Request, out any) error {
	resp, err := c.exec.Execute(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.Path, err)
	}
	return nil
}
