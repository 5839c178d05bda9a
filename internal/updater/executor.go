package updater

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/hubsync/bundlesync/internal/bundle"
	"github.com/hubsync/bundlesync/internal/history"
	"github.com/hubsync/bundlesync/internal/notify"
	"github.com/hubsync/bundlesync/internal/state"
	"github.com/hubsync/bundlesync/internal/telemetry"
)

// DefaultBatchSize is the number of updates applied concurrently within one
// batch. A batch must settle completely before the next one starts.
const DefaultBatchSize = 3

// BatchResult aggregates the outcome of one batch update run.
type BatchResult struct {
	Successful []string
	Failed     []notify.FailedUpdate
}

// Executor applies bundle updates. Each bundle update is guarded against
// concurrent attempts, verified after installation, and rolled back to the
// previously installed version when verification fails.
type Executor struct {
	bundles bundle.Operations
	sources bundle.SourceOperations
	guard   *ActiveUpdateGuard

	batchSize int
	notifier  notify.Sink
	histLog   history.Log
	store     state.Store
	metrics   *telemetry.UpdateMetrics
	logger    *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithBatchSize overrides the number of concurrent updates per batch. Values
// below one are ignored.
func WithBatchSize(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithNotifier sets the sink update outcomes are surfaced to.
func WithNotifier(sink notify.Sink) Option {
	return func(e *Executor) {
		e.notifier = sink
	}
}

// WithHistory sets the history log updates are recorded to and the state
// store activation snapshots are read from. Both are required for recording;
// updates on bundles without hub context are never recorded.
func WithHistory(log history.Log, store state.Store) Option {
	return func(e *Executor) {
		e.histLog = log
		e.store = store
	}
}

// WithMetrics sets the update metrics instruments.
func WithMetrics(m *telemetry.UpdateMetrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// WithLogger sets the executor's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an Executor driving the given bundle and source
// operations. sources may be nil, in which case the pre-update source refresh
// is skipped.
func NewExecutor(bundles bundle.Operations, sources bundle.SourceOperations, opts ...Option) *Executor {
	e := &Executor{
		bundles:   bundles,
		sources:   sources,
		guard:     NewActiveUpdateGuard(),
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Guard exposes the executor's in-flight update tracker, used by the status
// endpoint to report active updates.
func (e *Executor) Guard() *ActiveUpdateGuard {
	return e.guard
}

// AutoUpdateBundle updates one bundle to the target version. Exactly one
// update per bundle may be in flight; concurrent attempts fail immediately
// with ErrUpdateInFlight. The update is verified by reading the installed
// version back; on mismatch the previously installed version is restored and
// a RolledBackError is returned. A failed rollback returns a terminal
// RollbackFailureError and is never retried automatically.
func (e *Executor) AutoUpdateBundle(ctx context.Context, bundleID, targetVersion string) error {
	if bundleID == "" {
		return &ValidationError{Reason: "bundle id is required"}
	}
	if targetVersion == "" {
		return &ValidationError{Reason: "target version is required"}
	}

	if !e.guard.TryAcquire(bundleID) {
		return fmt.Errorf("%w: %s", ErrUpdateInFlight, bundleID)
	}
	defer e.guard.Release(bundleID)

	return e.update(ctx, bundleID, targetVersion)
}

func (e *Executor) update(ctx context.Context, bundleID, targetVersion string) error {
	details, err := e.bundles.GetBundleDetails(ctx, bundleID)
	if err != nil {
		return fmt.Errorf("failed to read bundle %s before update: %w", bundleID, err)
	}
	previousVersion := details.Version

	e.refreshSource(ctx, details)

	if err := e.applyAndVerify(ctx, bundleID, targetVersion); err != nil {
		return e.rollback(ctx, details, previousVersion, targetVersion, err)
	}

	e.recordOutcome(ctx, details, previousVersion, targetVersion, history.StatusSuccess, nil)
	e.metrics.RecordUpdate(ctx, bundleID, telemetry.OutcomeSuccess)
	e.logger.Info("bundle updated",
		"bundle", bundleID,
		"from", previousVersion,
		"to", targetVersion)
	if e.notifier != nil {
		e.notifier.ShowAutoUpdateComplete(ctx, bundleID, previousVersion, targetVersion)
	}
	return nil
}

// refreshSource refreshes the bundle's source before the update so the
// download resolves against current data. Failures are logged and discarded;
// the update proceeds on cached data.
func (e *Executor) refreshSource(ctx context.Context, details *bundle.Installed) {
	if e.sources == nil || details.SourceID == "" {
		return
	}
	if err := e.sources.SyncSource(ctx, details.SourceID); err != nil {
		syncErr := &SourceSyncError{SourceID: details.SourceID, Err: err}
		e.logger.Warn("source refresh failed, updating from cached data",
			"bundle", details.BundleID,
			"error", syncErr)
	}
}

// applyAndVerify installs the version and reads the installed set back to
// confirm the bundle now reports exactly that version.
func (e *Executor) applyAndVerify(ctx context.Context, bundleID, version string) error {
	if err := e.bundles.UpdateBundle(ctx, bundleID, version); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	installed, err := e.bundles.ListInstalledBundles(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify update: %w", err)
	}
	for _, b := range installed {
		if b.BundleID != bundleID {
			continue
		}
		if b.Version == version {
			return nil
		}
		return &VerificationError{BundleID: bundleID, Expected: version, Actual: b.Version}
	}
	return &VerificationError{BundleID: bundleID, Expected: version, Actual: "not installed"}
}

func (e *Executor) rollback(ctx context.Context, details *bundle.Installed, previousVersion, targetVersion string, cause error) error {
	bundleID := details.BundleID

	if rbErr := e.applyAndVerify(ctx, bundleID, previousVersion); rbErr != nil {
		e.recordOutcome(ctx, details, previousVersion, targetVersion, history.StatusFailure, cause)
		e.metrics.RecordUpdate(ctx, bundleID, telemetry.OutcomeFailure)
		e.metrics.RecordRollback(ctx, bundleID, false)
		e.logger.Error("rollback failed",
			"bundle", bundleID,
			"version", previousVersion,
			"error", rbErr,
			"cause", cause)
		if e.notifier != nil {
			e.notifier.ShowUpdateFailure(ctx, bundleID,
				fmt.Sprintf("Update to version %s failed and rollback failed, reinstall manually", targetVersion))
		}
		return &RollbackFailureError{BundleID: bundleID, TargetVersion: previousVersion, Err: rbErr}
	}

	e.recordOutcome(ctx, details, previousVersion, targetVersion, history.StatusRollback, cause)
	e.metrics.RecordUpdate(ctx, bundleID, telemetry.OutcomeRolledBack)
	e.metrics.RecordRollback(ctx, bundleID, true)
	e.logger.Warn("update rolled back",
		"bundle", bundleID,
		"restored", previousVersion,
		"cause", cause)
	if e.notifier != nil {
		e.notifier.ShowUpdateFailure(ctx, bundleID,
			fmt.Sprintf("Update failed. Rolled back to version %s", previousVersion))
	}
	return &RolledBackError{BundleID: bundleID, RestoredVersion: previousVersion, Err: cause}
}

// recordOutcome appends the update outcome to the sync history of the
// bundle's (hub, profile) pair. Bundles without hub context and executors
// without a history log skip recording.
func (e *Executor) recordOutcome(ctx context.Context, details *bundle.Installed, previousVersion, targetVersion string, status history.Status, cause error) {
	if e.histLog == nil || details.HubID == "" || details.ProfileID == "" {
		return
	}

	var previous history.PreviousState
	if e.store != nil {
		act, err := e.store.Activation(ctx, details.HubID, details.ProfileID)
		if err != nil {
			e.logger.Warn("failed to read activation state for history recording",
				"hub", details.HubID,
				"profile", details.ProfileID,
				"error", err)
		} else if act != nil {
			previous = history.PreviousState{
				Bundles:     act.SyncedBundles,
				ActivatedAt: act.ActivatedAt,
			}
		}
	}

	changes := bundle.ProfileChanges{
		Updated: []bundle.VersionChange{{
			ID:         details.BundleID,
			OldVersion: previousVersion,
			NewVersion: targetVersion,
		}},
	}

	if _, err := e.histLog.RecordSync(ctx, details.HubID, details.ProfileID, changes, previous, status, cause); err != nil {
		e.logger.Warn("failed to record update in sync history",
			"bundle", details.BundleID,
			"error", err)
	}
}

// AutoUpdateBundles applies every candidate update whose bundle has
// auto-update enabled, in batches of at most batchSize concurrent updates.
// A batch settles completely, success or failure, before the next batch
// starts. One summary notification is emitted for the whole run; when no
// candidate is eligible the run is a silent no-op.
func (e *Executor) AutoUpdateBundles(ctx context.Context, results []bundle.UpdateCheckResult) *BatchResult {
	res := &BatchResult{}

	var eligible []bundle.UpdateCheckResult
	for _, r := range results {
		if r.AutoUpdateEnabled {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) == 0 {
		return res
	}

	var mu sync.Mutex
	for start := 0; start < len(eligible); start += e.batchSize {
		end := min(start+e.batchSize, len(eligible))

		var wg sync.WaitGroup
		for _, r := range eligible[start:end] {
			wg.Add(1)
			go func(r bundle.UpdateCheckResult) {
				defer wg.Done()
				err := e.AutoUpdateBundle(ctx, r.BundleID, r.LatestVersion)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					res.Failed = append(res.Failed, notify.FailedUpdate{
						BundleID: r.BundleID,
						Message:  err.Error(),
					})
					return
				}
				res.Successful = append(res.Successful, r.BundleID)
			}(r)
		}
		wg.Wait()
	}

	sort.Strings(res.Successful)
	sort.Slice(res.Failed, func(i, j int) bool { return res.Failed[i].BundleID < res.Failed[j].BundleID })

	e.logger.Info("batch update run finished",
		"successful", len(res.Successful),
		"failed", len(res.Failed))
	if e.notifier != nil {
		e.notifier.ShowBatchUpdateSummary(ctx, res.Successful, res.Failed)
	}
	return res
}
