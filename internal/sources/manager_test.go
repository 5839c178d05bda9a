package sources

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/bundlesync/internal/bundle"
)

func TestManager_ListSources(t *testing.T) {
	t.Parallel()

	m, err := NewManager([]SourceConfig{
		{ID: "zeta", HTTP: &HTTPSource{URL: "https://hub.example/z.yaml"}},
		{ID: "alpha", Name: "Alpha Hub", File: &FileSource{Path: "/etc/alpha.yaml"}},
	}, nil)
	require.NoError(t, err)

	infos, err := m.ListSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []bundle.SourceInfo{
		{ID: "alpha", Name: "Alpha Hub", Type: TypeFile},
		{ID: "zeta", Name: "zeta", Type: TypeHTTP},
	}, infos, "sources are sorted by id and default their name to the id")
}

func TestManager_DuplicateSourceID(t *testing.T) {
	t.Parallel()

	_, err := NewManager([]SourceConfig{
		{ID: "hub", File: &FileSource{Path: "/a.yaml"}},
		{ID: "hub", File: &FileSource{Path: "/b.yaml"}},
	}, nil)
	assert.ErrorContains(t, err, `duplicate source id "hub"`)
}

func TestManager_SyncSourceAndCatalog(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	m, err := NewManager([]SourceConfig{{ID: "hub", File: &FileSource{Path: path}}}, nil)
	require.NoError(t, err)

	require.NoError(t, m.SyncSource(context.Background(), "hub"))

	releases, err := m.LatestBundles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []bundle.Release{
		{BundleID: "web-tools", Version: "1.2.0", DownloadURL: "https://hub.example/web-tools/1.2.0"},
		{BundleID: "db-tools", Version: "2.1.0"},
	}, releases)

	assert.ErrorContains(t, m.SyncSource(context.Background(), "nope"), `unknown source "nope"`)
}

func TestManager_DefinitionFetchesLazily(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, testDefinition)
	m, err := NewManager([]SourceConfig{{ID: "hub", File: &FileSource{Path: path}}}, nil)
	require.NoError(t, err)

	// No explicit sync: the first read fetches.
	def, err := m.Definition(context.Background(), "hub")
	require.NoError(t, err)
	assert.Equal(t, "Example Hub", def.Name)

	// Later reads serve the cache even if the file disappears.
	require.NoError(t, os.Remove(path))
	def, err = m.Definition(context.Background(), "hub")
	require.NoError(t, err)
	assert.Equal(t, "Example Hub", def.Name)
}

func TestManager_SyncAllJoinsFailures(t *testing.T) {
	t.Parallel()

	good := writeDefinition(t, testDefinition)
	m, err := NewManager([]SourceConfig{
		{ID: "good", File: &FileSource{Path: good}},
		{ID: "bad", File: &FileSource{Path: "/nonexistent/hub.yaml"}},
	}, nil)
	require.NoError(t, err)

	err = m.SyncAll(context.Background())
	assert.ErrorContains(t, err, `source "bad"`)

	// The healthy source was still synced.
	def, derr := m.Definition(context.Background(), "good")
	require.NoError(t, derr)
	assert.Equal(t, "Example Hub", def.Name)
}
