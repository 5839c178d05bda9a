// Package notify defines the notification sink consumed by the scheduler and
// the batch update executor, plus a structured-log implementation for the
// daemon.
package notify

import (
	"context"

	"github.com/hubsync/bundlesync/internal/bundle"
)

// Preference controls which update notifications are surfaced to the user.
type Preference string

const (
	// PreferenceAll surfaces every update notification
	PreferenceAll Preference = "all"

	// PreferenceCritical surfaces only critical updates (major version bumps)
	PreferenceCritical Preference = "critical"

	// PreferenceNone suppresses update notifications entirely
	PreferenceNone Preference = "none"
)

// Valid reports whether p is a known preference value.
func (p Preference) Valid() bool {
	switch p {
	case PreferenceAll, PreferenceCritical, PreferenceNone:
		return true
	}
	return false
}

// FailedUpdate pairs a bundle id with the error that failed its update.
type FailedUpdate struct {
	BundleID string `json:"bundleId"`
	Message  string `json:"message"`
}

// Sink surfaces sync outcomes to the user. The notification preference policy
// is owned by the sink, not by its callers.
type Sink interface {
	// ShowUpdateNotification surfaces available updates, filtered by the
	// given preference.
	ShowUpdateNotification(ctx context.Context, updates []bundle.UpdateCheckResult, pref Preference)

	// ShowBatchUpdateSummary surfaces the aggregated outcome of one batch
	// update run.
	ShowBatchUpdateSummary(ctx context.Context, successful []string, failed []FailedUpdate)

	// ShowAutoUpdateComplete surfaces one successfully applied update.
	ShowAutoUpdateComplete(ctx context.Context, id, fromVersion, toVersion string)

	// ShowUpdateFailure surfaces one failed update with a human-readable
	// message.
	ShowUpdateFailure(ctx context.Context, id, message string)
}
