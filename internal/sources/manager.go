package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/hubsync/bundlesync/internal/bundle"
)

// Manager owns the configured hub definition sources and a cache of their
// last fetched definitions. It implements the engine's source operations and
// serves as the release catalog for update checks.
type Manager struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string]Handler
	infos    []bundle.SourceInfo
	defs     map[string]*Definition
	hashes   map[string]string
}

// NewManager builds handlers for every configured source. Configuration
// problems surface here, before any fetch.
func NewManager(cfgs []SourceConfig, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger:   logger,
		handlers: make(map[string]Handler, len(cfgs)),
		defs:     make(map[string]*Definition),
		hashes:   make(map[string]string),
	}

	for i, cfg := range cfgs {
		h, err := NewHandler(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		if _, dup := m.handlers[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate source id %q", cfg.ID)
		}
		m.handlers[cfg.ID] = h

		name := cfg.Name
		if name == "" {
			name = cfg.ID
		}
		m.infos = append(m.infos, bundle.SourceInfo{ID: cfg.ID, Name: name, Type: h.Type()})
	}

	sort.Slice(m.infos, func(i, j int) bool { return m.infos[i].ID < m.infos[j].ID })
	return m, nil
}

// ListSources returns the configured sources sorted by id.
func (m *Manager) ListSources(_ context.Context) ([]bundle.SourceInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]bundle.SourceInfo(nil), m.infos...), nil
}

// SyncSource fetches the source's definition and replaces the cached one.
func (m *Manager) SyncSource(ctx context.Context, sourceID string) error {
	m.mu.RLock()
	h, ok := m.handlers[sourceID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown source %q", sourceID)
	}

	res, err := h.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to sync source %q: %w", sourceID, err)
	}

	m.mu.Lock()
	changed := m.hashes[sourceID] != res.Hash
	m.defs[sourceID] = res.Definition
	m.hashes[sourceID] = res.Hash
	m.mu.Unlock()

	m.logger.Info("source synced",
		"source", sourceID,
		"changed", changed,
		"profiles", len(res.Definition.Profiles),
		"releases", len(res.Definition.Releases))
	return nil
}

// SyncAll refreshes every source. One source's failure does not stop the
// others; all failures are joined into the returned error.
func (m *Manager) SyncAll(ctx context.Context) error {
	m.mu.RLock()
	ids := make([]string, 0, len(m.handlers))
	for id := range m.handlers {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		if err := m.SyncSource(ctx, id); err != nil {
			m.logger.Error("source sync failed", "source", id, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Definition returns the cached definition for a source, fetching it on
// first use.
func (m *Manager) Definition(ctx context.Context, sourceID string) (*Definition, error) {
	m.mu.RLock()
	def, ok := m.defs[sourceID]
	m.mu.RUnlock()
	if ok {
		return def, nil
	}

	if err := m.SyncSource(ctx, sourceID); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defs[sourceID], nil
}

// LatestBundles aggregates the published releases of all sources, fetching
// any definition not yet cached.
func (m *Manager) LatestBundles(ctx context.Context) ([]bundle.Release, error) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.handlers))
	for id := range m.handlers {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)

	var releases []bundle.Release
	for _, id := range ids {
		def, err := m.Definition(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, rel := range def.Releases {
			releases = append(releases, bundle.Release{
				BundleID:     rel.Bundle,
				Version:      rel.Version,
				ReleaseDate:  rel.ReleaseDate,
				DownloadURL:  rel.DownloadURL,
				ReleaseNotes: rel.Notes,
			})
		}
	}
	return releases, nil
}
