// Package state contains the persisted key-value state the engine reads and
// writes: per-bundle auto-update preferences and per-(hub,profile) activation
// state.
package state

import (
	"context"
	"time"

	"github.com/hubsync/bundlesync/internal/bundle"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

// Activation is the recorded bundle set of an activated profile.
type Activation struct {
	// ActivatedAt is when this bundle set became active.
	ActivatedAt time.Time `json:"activatedAt"`

	// SyncedBundles is the full bundle set (ids and versions) that was
	// synchronized at activation time.
	SyncedBundles []bundle.Ref `json:"syncedBundles"`
}

// Store persists the engine's key-value state. Implementations must be safe
// for concurrent use.
type Store interface {
	// AutoUpdateEnabled returns the per-bundle auto-update preference.
	// Bundles without a recorded preference default to false (opt-in).
	AutoUpdateEnabled(ctx context.Context, bundleID string) (bool, error)

	// SetAutoUpdate records the per-bundle auto-update preference.
	SetAutoUpdate(ctx context.Context, bundleID string, enabled bool) error

	// ActiveProfile returns the id of the profile currently active for the
	// hub, or "" when none is active.
	ActiveProfile(ctx context.Context, hubID string) (string, error)

	// SetActiveProfile records the active profile for a hub.
	SetActiveProfile(ctx context.Context, hubID, profileID string) error

	// Activation returns the recorded activation state for a (hub, profile)
	// pair, or nil when none is recorded.
	Activation(ctx context.Context, hubID, profileID string) (*Activation, error)

	// SaveActivation replaces the activation state for a (hub, profile) pair.
	SaveActivation(ctx context.Context, hubID, profileID string, act *Activation) error
}
