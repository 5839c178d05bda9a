package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// InventoryFileName is the name of the inventory file inside the state
// directory.
const InventoryFileName = "bundles.json"

// Inventory is a file-backed record of installed bundles. It implements
// Operations for hosts that delegate the actual file install to an external
// installer and only need the engine's bookkeeping.
type Inventory struct {
	path string

	mu      sync.RWMutex
	bundles map[string]*Installed
}

// NewInventory creates an inventory rooted at baseDir. Existing records are
// loaded eagerly; a missing file is not an error (first run).
func NewInventory(baseDir string) (*Inventory, error) {
	inv := &Inventory{
		path:    filepath.Join(baseDir, InventoryFileName),
		bundles: make(map[string]*Installed),
	}
	if err := inv.load(); err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateBundle records the bundle at the given version. Unknown bundles are
// added with user scope.
func (inv *Inventory) UpdateBundle(_ context.Context, bundleID, version string) error {
	if bundleID == "" {
		return fmt.Errorf("bundle id is required")
	}
	if version == "" {
		return fmt.Errorf("version is required")
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	b, ok := inv.bundles[bundleID]
	if !ok {
		b = &Installed{BundleID: bundleID, Scope: ScopeUser}
		inv.bundles[bundleID] = b
	}
	b.Version = version
	b.InstalledAt = time.Now().UTC()
	return inv.save()
}

// ListInstalledBundles returns all recorded bundles sorted by id.
func (inv *Inventory) ListInstalledBundles(_ context.Context) ([]Installed, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make([]Installed, 0, len(inv.bundles))
	for _, b := range inv.bundles {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BundleID < out[j].BundleID })
	return out, nil
}

// GetBundleDetails returns the recorded bundle with the given id.
func (inv *Inventory) GetBundleDetails(_ context.Context, bundleID string) (*Installed, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	b, ok := inv.bundles[bundleID]
	if !ok {
		return nil, fmt.Errorf("bundle %s is not installed", bundleID)
	}
	cp := *b
	return &cp, nil
}

// Record replaces the full entry for a bundle, keeping its source and hub
// attribution. Used when a profile activation installs bundles.
func (inv *Inventory) Record(b Installed) error {
	if b.BundleID == "" {
		return fmt.Errorf("bundle id is required")
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	cp := b
	if cp.InstalledAt.IsZero() {
		cp.InstalledAt = time.Now().UTC()
	}
	inv.bundles[b.BundleID] = &cp
	return inv.save()
}

// Remove drops a bundle from the inventory. Removing an unknown bundle is a
// no-op.
func (inv *Inventory) Remove(bundleID string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if _, ok := inv.bundles[bundleID]; !ok {
		return nil
	}
	delete(inv.bundles, bundleID)
	return inv.save()
}

func (inv *Inventory) load() error {
	data, err := os.ReadFile(inv.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read inventory file: %w", err)
	}

	var loaded map[string]*Installed
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal inventory file: %w", err)
	}
	if loaded != nil {
		inv.bundles = loaded
	}
	return nil
}

// save writes the inventory via a temporary file and atomic rename. Callers
// must hold the write lock.
func (inv *Inventory) save() error {
	if err := os.MkdirAll(filepath.Dir(inv.path), 0750); err != nil {
		return fmt.Errorf("failed to create inventory directory: %w", err)
	}

	data, err := json.MarshalIndent(inv.bundles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}

	tempPath := inv.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary inventory file: %w", err)
	}

	if err := os.Rename(tempPath, inv.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename inventory file: %w", err)
	}

	return nil
}
