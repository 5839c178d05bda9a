// Package checker implements the default update checker: it compares the
// installed bundle set against the latest published releases and caches the
// result for a short window.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hubsync/bundlesync/internal/bundle"
	"github.com/hubsync/bundlesync/internal/state"
	"github.com/hubsync/bundlesync/internal/versions"
)

// DefaultCacheTTL is how long a check result is served from cache.
const DefaultCacheTTL = 5 * time.Minute

// Catalog lists the latest published release of every bundle known to the
// configured hubs.
type Catalog interface {
	LatestBundles(ctx context.Context) ([]bundle.Release, error)
}

// Checker produces candidate updates for installed bundles.
type Checker struct {
	catalog Catalog
	bundles bundle.Operations
	store   state.Store
	clock   clockwork.Clock
	logger  *slog.Logger
	ttl     time.Duration

	mu       sync.Mutex
	cached   []bundle.UpdateCheckResult
	cachedAt time.Time
}

// Option configures a Checker.
type Option func(*Checker)

// WithCacheTTL overrides the cache window. Zero or negative disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Checker) {
		c.ttl = ttl
	}
}

// WithClock injects the clock used for cache expiry.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Checker) {
		c.clock = clock
	}
}

// WithLogger sets the checker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// New creates a Checker over the given catalog, bundle manager and
// preference store.
func New(catalog Catalog, bundles bundle.Operations, store state.Store, opts ...Option) *Checker {
	c := &Checker{
		catalog: catalog,
		bundles: bundles,
		store:   store,
		clock:   clockwork.NewRealClock(),
		logger:  slog.Default(),
		ttl:     DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckForUpdates returns the installed bundles with a newer published
// version, sorted by bundle id. Results are cached; bypassCache forces a
// fresh read.
func (c *Checker) CheckForUpdates(ctx context.Context, bypassCache bool) ([]bundle.UpdateCheckResult, error) {
	if !bypassCache {
		if cached, ok := c.fromCache(); ok {
			return cached, nil
		}
	}

	releases, err := c.catalog.LatestBundles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list published bundles: %w", err)
	}
	installed, err := c.bundles.ListInstalledBundles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list installed bundles: %w", err)
	}

	// Keep only the highest published version per bundle.
	latest := make(map[string]bundle.Release, len(releases))
	for _, rel := range releases {
		if prev, ok := latest[rel.BundleID]; ok &&
			versions.CompareVersions(rel.Version, prev.Version) <= 0 {
			continue
		}
		latest[rel.BundleID] = rel
	}

	var results []bundle.UpdateCheckResult
	for _, b := range installed {
		rel, ok := latest[b.BundleID]
		if !ok || !versions.IsUpdateAvailable(b.Version, rel.Version) {
			continue
		}

		autoUpdate, err := c.store.AutoUpdateEnabled(ctx, b.BundleID)
		if err != nil {
			c.logger.Warn("failed to read auto-update preference, defaulting to off",
				"bundle", b.BundleID,
				"error", err)
			autoUpdate = false
		}

		results = append(results, bundle.UpdateCheckResult{
			BundleID:          b.BundleID,
			CurrentVersion:    b.Version,
			LatestVersion:     rel.Version,
			ReleaseDate:       rel.ReleaseDate,
			DownloadURL:       rel.DownloadURL,
			ReleaseNotes:      rel.ReleaseNotes,
			AutoUpdateEnabled: autoUpdate,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].BundleID < results[j].BundleID })

	c.storeCache(results)
	return results, nil
}

func (c *Checker) fromCache() ([]bundle.UpdateCheckResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 || c.cachedAt.IsZero() {
		return nil, false
	}
	if c.clock.Since(c.cachedAt) >= c.ttl {
		return nil, false
	}
	return append([]bundle.UpdateCheckResult(nil), c.cached...), true
}

func (c *Checker) storeCache(results []bundle.UpdateCheckResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 {
		return
	}
	c.cached = append([]bundle.UpdateCheckResult(nil), results...)
	c.cachedAt = c.clock.Now()
}
