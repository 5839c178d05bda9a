package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hubsync/bundlesync/internal/bundle"
	"github.com/hubsync/bundlesync/internal/diff"
	"github.com/hubsync/bundlesync/internal/state"
)

// ErrProfileNotActive is returned when a rollback targets a profile that is
// not currently active for its hub.
var ErrProfileNotActive = errors.New("profile not active")

// Installer places bundle files on disk. Implemented by the installation
// subsystem; the rollback service only delegates to it.
type Installer interface {
	// ApplyChanges installs added bundles, replaces updated ones and removes
	// the rest, per the change set.
	ApplyChanges(ctx context.Context, changes bundle.ProfileChanges) error
}

// RollbackOptions controls optional rollback behavior.
type RollbackOptions struct {
	// InstallBundles also applies the computed changes on disk through the
	// configured Installer. Without it the rollback only rewrites the
	// recorded activation state.
	InstallBundles bool
}

// RollbackService restores a profile's bundle set to a previously recorded
// state and records the rollback itself as a new history entry, so rollbacks
// are themselves reversible.
type RollbackService struct {
	log       Log
	state     state.Store
	installer Installer
	logger    *slog.Logger
}

// RollbackOption configures the rollback service.
type RollbackOption func(*RollbackService)

// WithInstaller sets the installer used when RollbackOptions.InstallBundles
// is set.
func WithInstaller(installer Installer) RollbackOption {
	return func(s *RollbackService) {
		s.installer = installer
	}
}

// WithRollbackLogger sets the logger. Defaults to slog.Default().
func WithRollbackLogger(logger *slog.Logger) RollbackOption {
	return func(s *RollbackService) {
		s.logger = logger
	}
}

// NewRollbackService creates a rollback service over the given log and state
// store.
func NewRollbackService(log Log, st state.Store, opts ...RollbackOption) *RollbackService {
	s := &RollbackService{
		log:    log,
		state:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RollbackToEntry restores the bundle set recorded in entry.PreviousState.
//
// The targeted profile must currently be the active profile for its hub. The
// returned entry is the newly recorded rollback entry; its Changes describe
// the move from the current set to the restored one, and its PreviousState is
// the state that existed immediately before this rollback.
func (s *RollbackService) RollbackToEntry(ctx context.Context, entry *Entry, opts RollbackOptions) (*Entry, error) {
	if entry == nil {
		return nil, fmt.Errorf("history entry is required")
	}

	active, err := s.state.ActiveProfile(ctx, entry.HubID)
	if err != nil {
		return nil, fmt.Errorf("failed to read active profile for hub %s: %w", entry.HubID, err)
	}
	if active != entry.ProfileID {
		return nil, fmt.Errorf("%w: hub %s has active profile %q, entry targets %q",
			ErrProfileNotActive, entry.HubID, active, entry.ProfileID)
	}

	// Capture the state that exists right now; it becomes the previousState
	// of the rollback entry.
	var (
		currentBundles []bundle.Ref
		activatedAt    time.Time
	)
	current, err := s.state.Activation(ctx, entry.HubID, entry.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to read activation state: %w", err)
	}
	if current != nil {
		currentBundles = current.SyncedBundles
		activatedAt = current.ActivatedAt
	}

	// Directional diff: how to move from the current set to the target set.
	rollbackChanges := diff.ComputeChanges(currentBundles, entry.PreviousState.Bundles, nil, nil)

	if err := s.state.SaveActivation(ctx, entry.HubID, entry.ProfileID, &state.Activation{
		ActivatedAt:   time.Now(),
		SyncedBundles: entry.PreviousState.Bundles,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist rolled-back activation state: %w", err)
	}

	rollbackEntry, err := s.log.RecordSync(ctx,
		entry.HubID, entry.ProfileID,
		rollbackChanges,
		PreviousState{Bundles: currentBundles, ActivatedAt: activatedAt},
		StatusRollback,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record rollback entry: %w", err)
	}

	s.logger.InfoContext(ctx, "Profile rolled back",
		"hub", entry.HubID,
		"profile", entry.ProfileID,
		"restored_bundles", len(entry.PreviousState.Bundles),
		"added", len(rollbackChanges.Added),
		"updated", len(rollbackChanges.Updated),
		"removed", len(rollbackChanges.Removed))

	if opts.InstallBundles && s.installer != nil {
		if err := s.installer.ApplyChanges(ctx, rollbackChanges); err != nil {
			return rollbackEntry, fmt.Errorf("rollback state restored but bundle installation failed: %w", err)
		}
	}

	return rollbackEntry, nil
}
