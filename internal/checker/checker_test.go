package checker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/bundlesync/internal/bundle"
	"github.com/hubsync/bundlesync/internal/state"
)

type fakeCatalog struct {
	mu       sync.Mutex
	calls    int
	releases []bundle.Release
	err      error
}

func (f *fakeCatalog) LatestBundles(_ context.Context) ([]bundle.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.releases, f.err
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type staticBundleOps struct {
	installed []bundle.Installed
	err       error
}

func (s *staticBundleOps) UpdateBundle(_ context.Context, _, _ string) error {
	return errors.New("not supported")
}

func (s *staticBundleOps) ListInstalledBundles(_ context.Context) ([]bundle.Installed, error) {
	return s.installed, s.err
}

func (s *staticBundleOps) GetBundleDetails(_ context.Context, _ string) (*bundle.Installed, error) {
	return nil, errors.New("not supported")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckForUpdates(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{releases: []bundle.Release{
		{BundleID: "web-tools", Version: "1.2.0", DownloadURL: "https://hub.example/web-tools/1.2.0"},
		{BundleID: "web-tools", Version: "1.1.0"},
		{BundleID: "db-tools", Version: "2.0.0"},
		{BundleID: "cli-tools", Version: "0.9.0"},
	}}
	ops := &staticBundleOps{installed: []bundle.Installed{
		{BundleID: "web-tools", Version: "1.0.0"},
		{BundleID: "db-tools", Version: "2.0.0"},
		{BundleID: "cli-tools", Version: "1.0.0"},
		{BundleID: "unpublished", Version: "1.0.0"},
	}}
	store := state.NewMemoryStore()
	require.NoError(t, store.SetAutoUpdate(context.Background(), "web-tools", true))

	c := New(catalog, ops, store, WithLogger(testLogger()))
	results, err := c.CheckForUpdates(context.Background(), true)
	require.NoError(t, err)

	// db-tools is current, cli-tools is ahead of the catalog, unpublished has
	// no release. Only web-tools is a candidate, at the highest version.
	require.Len(t, results, 1)
	assert.Equal(t, bundle.UpdateCheckResult{
		BundleID:          "web-tools",
		CurrentVersion:    "1.0.0",
		LatestVersion:     "1.2.0",
		DownloadURL:       "https://hub.example/web-tools/1.2.0",
		AutoUpdateEnabled: true,
	}, results[0])
}

func TestCheckForUpdates_AutoUpdateDefaultsToOff(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{releases: []bundle.Release{{BundleID: "web-tools", Version: "1.1.0"}}}
	ops := &staticBundleOps{installed: []bundle.Installed{{BundleID: "web-tools", Version: "1.0.0"}}}

	c := New(catalog, ops, state.NewMemoryStore(), WithLogger(testLogger()))
	results, err := c.CheckForUpdates(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].AutoUpdateEnabled, "auto-update is opt-in")
}

func TestCheckForUpdates_Cache(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	catalog := &fakeCatalog{releases: []bundle.Release{{BundleID: "web-tools", Version: "1.1.0"}}}
	ops := &staticBundleOps{installed: []bundle.Installed{{BundleID: "web-tools", Version: "1.0.0"}}}

	c := New(catalog, ops, state.NewMemoryStore(), WithClock(clock), WithLogger(testLogger()))

	first, err := c.CheckForUpdates(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.callCount())

	cached, err := c.CheckForUpdates(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.callCount(), "a fresh cache must be served without hitting the catalog")
	assert.Equal(t, first, cached)

	_, err = c.CheckForUpdates(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.callCount(), "bypassCache forces a fresh read")

	clock.Advance(DefaultCacheTTL)
	_, err = c.CheckForUpdates(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, catalog.callCount(), "an expired cache is refreshed")
}

func TestCheckForUpdates_Errors(t *testing.T) {
	t.Parallel()

	t.Run("catalog failure", func(t *testing.T) {
		t.Parallel()
		catalog := &fakeCatalog{err: errors.New("hub unreachable")}
		c := New(catalog, &staticBundleOps{}, state.NewMemoryStore(), WithLogger(testLogger()))
		_, err := c.CheckForUpdates(context.Background(), true)
		assert.ErrorContains(t, err, "hub unreachable")
	})

	t.Run("list failure", func(t *testing.T) {
		t.Parallel()
		ops := &staticBundleOps{err: errors.New("store corrupted")}
		c := New(&fakeCatalog{}, ops, state.NewMemoryStore(), WithLogger(testLogger()))
		_, err := c.CheckForUpdates(context.Background(), true)
		assert.ErrorContains(t, err, "store corrupted")
	})
}
