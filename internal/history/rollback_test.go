package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/bundlesync/internal/bundle"
	"github.com/hubsync/bundlesync/internal/state"
)

type fakeInstaller struct {
	applied []bundle.ProfileChanges
	err     error
}

func (f *fakeInstaller) ApplyChanges(_ context.Context, changes bundle.ProfileChanges) error {
	f.applied = append(f.applied, changes)
	return f.err
}

// setupRollback seeds a store with an active profile whose current bundle set
// is current, and a history entry whose previous state is previous.
func setupRollback(t *testing.T, current, previous []bundle.Ref) (Log, state.Store, *Entry) {
	t.Helper()
	ctx := context.Background()

	st := state.NewMemoryStore()
	require.NoError(t, st.SetActiveProfile(ctx, "hub", "p"))
	require.NoError(t, st.SaveActivation(ctx, "hub", "p", &state.Activation{
		ActivatedAt:   time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		SyncedBundles: current,
	}))

	log := NewMemoryLog()
	entry, err := log.RecordSync(ctx, "hub", "p",
		bundle.ProfileChanges{Updated: []bundle.VersionChange{{ID: "a", OldVersion: "1.0.0", NewVersion: "2.0.0"}}},
		PreviousState{Bundles: previous, ActivatedAt: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)},
		StatusSuccess, nil)
	require.NoError(t, err)

	return log, st, entry
}

func TestRollbackToEntry_RestoresPreviousState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	current := []bundle.Ref{{ID: "a", Version: "2.0.0"}, {ID: "b", Version: "1.0.0"}}
	previous := []bundle.Ref{{ID: "a", Version: "1.0.0"}}
	log, st, entry := setupRollback(t, current, previous)

	svc := NewRollbackService(log, st)
	rollbackEntry, err := svc.RollbackToEntry(ctx, entry, RollbackOptions{})
	require.NoError(t, err)
	require.NotNil(t, rollbackEntry)

	// Activation state now holds exactly the entry's previous bundles.
	act, err := st.Activation(ctx, "hub", "p")
	require.NoError(t, err)
	require.NotNil(t, act)
	assert.Equal(t, previous, act.SyncedBundles)

	// The rollback entry describes current -> target.
	assert.Equal(t, StatusRollback, rollbackEntry.Status)
	assert.Equal(t, []bundle.VersionChange{{ID: "a", OldVersion: "2.0.0", NewVersion: "1.0.0"}}, rollbackEntry.Changes.Updated)
	assert.Equal(t, []string{"b"}, rollbackEntry.Changes.Removed)

	// Its own previous state is the pre-rollback state, making the rollback
	// reversible.
	assert.Equal(t, current, rollbackEntry.PreviousState.Bundles)
}

func TestRollbackToEntry_RollbackOfRollbackRestoresOriginal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	current := []bundle.Ref{{ID: "a", Version: "2.0.0"}}
	previous := []bundle.Ref{{ID: "a", Version: "1.0.0"}}
	log, st, entry := setupRollback(t, current, previous)

	svc := NewRollbackService(log, st)
	first, err := svc.RollbackToEntry(ctx, entry, RollbackOptions{})
	require.NoError(t, err)

	// Rolling back the rollback restores the state that existed before it.
	_, err = svc.RollbackToEntry(ctx, first, RollbackOptions{})
	require.NoError(t, err)

	act, err := st.Activation(ctx, "hub", "p")
	require.NoError(t, err)
	assert.Equal(t, current, act.SyncedBundles)
}

func TestRollbackToEntry_FailsWhenProfileNotActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	log, st, entry := setupRollback(t, nil, nil)
	require.NoError(t, st.SetActiveProfile(ctx, "hub", "other-profile"))

	svc := NewRollbackService(log, st)
	_, err := svc.RollbackToEntry(ctx, entry, RollbackOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProfileNotActive)

	// No rollback entry was recorded.
	entries, err := log.GetHistory(ctx, "hub", "p", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusSuccess, entries[0].Status)
}

func TestRollbackToEntry_InstallBundlesDelegatesToInstaller(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	current := []bundle.Ref{{ID: "a", Version: "2.0.0"}}
	previous := []bundle.Ref{{ID: "a", Version: "1.0.0"}}
	log, st, entry := setupRollback(t, current, previous)

	installer := &fakeInstaller{}
	svc := NewRollbackService(log, st, WithInstaller(installer))

	_, err := svc.RollbackToEntry(ctx, entry, RollbackOptions{InstallBundles: true})
	require.NoError(t, err)
	require.Len(t, installer.applied, 1)
	assert.Equal(t, []bundle.VersionChange{{ID: "a", OldVersion: "2.0.0", NewVersion: "1.0.0"}}, installer.applied[0].Updated)
}

func TestRollbackToEntry_InstallerFailureStillRecordsEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	log, st, entry := setupRollback(t,
		[]bundle.Ref{{ID: "a", Version: "2.0.0"}},
		[]bundle.Ref{{ID: "a", Version: "1.0.0"}})

	installer := &fakeInstaller{err: errors.New("disk full")}
	svc := NewRollbackService(log, st, WithInstaller(installer))

	rollbackEntry, err := svc.RollbackToEntry(ctx, entry, RollbackOptions{InstallBundles: true})
	require.Error(t, err)
	require.NotNil(t, rollbackEntry)

	entries, lerr := log.GetHistory(ctx, "hub", "p", 1)
	require.NoError(t, lerr)
	assert.Equal(t, StatusRollback, entries[0].Status)
}

func TestRollbackToEntry_NilEntry(t *testing.T) {
	t.Parallel()

	svc := NewRollbackService(NewMemoryLog(), state.NewMemoryStore())
	_, err := svc.RollbackToEntry(context.Background(), nil, RollbackOptions{})
	assert.Error(t, err)
}
