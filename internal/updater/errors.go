// Package updater applies bundle updates with mutual exclusion per bundle,
// post-update verification, and rollback on failure. Batch runs are bounded
// to a fixed number of concurrent updates.
package updater

import (
	"errors"
	"fmt"
)

// ErrUpdateInFlight is returned when an update is requested for a bundle that
// already has one in flight.
var ErrUpdateInFlight = errors.New("update already in flight")

// ValidationError reports invalid arguments, detected before any I/O.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// VerificationError reports a post-update version mismatch: the installed
// version read back after the update does not match the target.
type VerificationError struct {
	BundleID string
	Expected string
	Actual   string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("bundle %s: expected version %s after update, found %s",
		e.BundleID, e.Expected, e.Actual)
}

// RolledBackError reports an update that failed but whose rollback restored
// the previously installed version.
type RolledBackError struct {
	BundleID        string
	RestoredVersion string
	Err             error
}

func (e *RolledBackError) Error() string {
	return fmt.Sprintf("bundle %s: update failed, rolled back to version %s: %v",
		e.BundleID, e.RestoredVersion, e.Err)
}

func (e *RolledBackError) Unwrap() error {
	return e.Err
}

// RollbackFailureError reports an update whose rollback also failed. It is
// terminal: the bundle requires a manual reinstall and is never retried
// automatically.
type RollbackFailureError struct {
	BundleID      string
	TargetVersion string
	Err           error
}

func (e *RollbackFailureError) Error() string {
	return fmt.Sprintf("bundle %s: rollback to version %s failed, reinstall manually: %v",
		e.BundleID, e.TargetVersion, e.Err)
}

func (e *RollbackFailureError) Unwrap() error {
	return e.Err
}

// SourceSyncError reports a failed best-effort source refresh before an
// update. It is logged and discarded, never returned: the update proceeds on
// cached data.
type SourceSyncError struct {
	SourceID string
	Err      error
}

func (e *SourceSyncError) Error() string {
	return fmt.Sprintf("source %s: refresh failed: %v", e.SourceID, e.Err)
}

func (e *SourceSyncError) Unwrap() error {
	return e.Err
}
