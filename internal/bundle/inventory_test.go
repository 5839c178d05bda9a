package bundle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_UpdateAndList(t *testing.T) {
	t.Parallel()

	inv, err := NewInventory(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, inv.UpdateBundle(ctx, "web-tools", "1.0.0"))
	require.NoError(t, inv.UpdateBundle(ctx, "db-tools", "2.0.0"))
	require.NoError(t, inv.UpdateBundle(ctx, "web-tools", "1.1.0"))

	bundles, err := inv.ListInstalledBundles(ctx)
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, "db-tools", bundles[0].BundleID, "bundles are sorted by id")
	assert.Equal(t, "web-tools", bundles[1].BundleID)
	assert.Equal(t, "1.1.0", bundles[1].Version, "update replaces the recorded version")

	details, err := inv.GetBundleDetails(ctx, "web-tools")
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", details.Version)
	assert.Equal(t, ScopeUser, details.Scope)
	assert.False(t, details.InstalledAt.IsZero())

	_, err = inv.GetBundleDetails(ctx, "missing")
	assert.ErrorContains(t, err, "not installed")
}

func TestInventory_Validation(t *testing.T) {
	t.Parallel()

	inv, err := NewInventory(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	assert.ErrorContains(t, inv.UpdateBundle(ctx, "", "1.0.0"), "bundle id is required")
	assert.ErrorContains(t, inv.UpdateBundle(ctx, "web-tools", ""), "version is required")
	assert.ErrorContains(t, inv.Record(Installed{}), "bundle id is required")
}

func TestInventory_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	inv, err := NewInventory(dir)
	require.NoError(t, err)
	require.NoError(t, inv.Record(Installed{
		BundleID:  "web-tools",
		Version:   "1.0.0",
		Scope:     ScopeWorkspace,
		SourceID:  "hub-1",
		HubID:     "hub-1",
		ProfileID: "default",
	}))

	reopened, err := NewInventory(dir)
	require.NoError(t, err)
	details, err := reopened.GetBundleDetails(ctx, "web-tools")
	require.NoError(t, err)
	assert.Equal(t, ScopeWorkspace, details.Scope)
	assert.Equal(t, "hub-1", details.HubID)
	assert.Equal(t, "default", details.ProfileID)
}

func TestInventory_Remove(t *testing.T) {
	t.Parallel()

	inv, err := NewInventory(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, inv.UpdateBundle(ctx, "web-tools", "1.0.0"))
	require.NoError(t, inv.Remove("web-tools"))
	require.NoError(t, inv.Remove("web-tools"), "removing twice is a no-op")

	bundles, err := inv.ListInstalledBundles(ctx)
	require.NoError(t, err)
	assert.Empty(t, bundles)
}
