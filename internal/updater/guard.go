package updater

import "sync"

// ActiveUpdateGuard tracks which bundles have an update in flight. Acquisition
// is an atomic check-and-insert so concurrent callers for the same bundle can
// never both proceed.
type ActiveUpdateGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewActiveUpdateGuard returns an empty guard.
func NewActiveUpdateGuard() *ActiveUpdateGuard {
	return &ActiveUpdateGuard{
		active: make(map[string]struct{}),
	}
}

// TryAcquire marks the bundle as updating. It returns false without blocking
// when an update for the bundle is already in flight.
func (g *ActiveUpdateGuard) TryAcquire(bundleID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.active[bundleID]; ok {
		return false
	}
	g.active[bundleID] = struct{}{}
	return true
}

// Release clears the in-flight mark for the bundle. Releasing a bundle that
// is not marked is a no-op.
func (g *ActiveUpdateGuard) Release(bundleID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, bundleID)
}

// Active returns the ids of bundles with an update in flight, in no
// particular order.
func (g *ActiveUpdateGuard) Active() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, 0, len(g.active))
	for id := range g.active {
		ids = append(ids, id)
	}
	return ids
}
