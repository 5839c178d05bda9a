package notify

import (
	"context"
	"log/slog"

	"github.com/hubsync/bundlesync/internal/bundle"
	"github.com/hubsync/bundlesync/internal/versions"
)

// slogSink writes notifications to a structured logger. It is the sink used
// by the daemon; desktop frontends supply their own Sink.
type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a Sink that logs notifications through logger. A nil
// logger falls back to slog.Default().
func NewSlogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogSink{logger: logger}
}

func (s *slogSink) ShowUpdateNotification(ctx context.Context, updates []bundle.UpdateCheckResult, pref Preference) {
	filtered := FilterByPreference(updates, pref)
	if len(filtered) == 0 {
		return
	}

	ids := make([]string, 0, len(filtered))
	for _, u := range filtered {
		ids = append(ids, u.BundleID)
	}
	s.logger.InfoContext(ctx, "Bundle updates available",
		"count", len(filtered),
		"bundles", ids,
		"preference", string(pref))
}

func (s *slogSink) ShowBatchUpdateSummary(ctx context.Context, successful []string, failed []FailedUpdate) {
	s.logger.InfoContext(ctx, "Batch update finished",
		"succeeded", len(successful),
		"failed", len(failed))
	for _, f := range failed {
		s.logger.WarnContext(ctx, "Bundle update failed",
			"bundle", f.BundleID,
			"message", f.Message)
	}
}

func (s *slogSink) ShowAutoUpdateComplete(ctx context.Context, id, fromVersion, toVersion string) {
	s.logger.InfoContext(ctx, "Bundle updated",
		"bundle", id,
		"from", fromVersion,
		"to", toVersion)
}

func (s *slogSink) ShowUpdateFailure(ctx context.Context, id, message string) {
	s.logger.WarnContext(ctx, "Bundle update failure",
		"bundle", id,
		"message", message)
}

// FilterByPreference applies the notification preference policy to a result
// list. "all" keeps everything, "none" keeps nothing, and "critical" keeps
// only updates that cross a major version boundary.
func FilterByPreference(updates []bundle.UpdateCheckResult, pref Preference) []bundle.UpdateCheckResult {
	switch pref {
	case PreferenceNone:
		return nil
	case PreferenceCritical:
		var critical []bundle.UpdateCheckResult
		for _, u := range updates {
			if isMajorBump(u.CurrentVersion, u.LatestVersion) {
				critical = append(critical, u)
			}
		}
		return critical
	default:
		return updates
	}
}

func isMajorBump(current, latest string) bool {
	return versions.CompareVersions(majorOf(current), majorOf(latest)) < 0
}

// majorOf reduces a version string to its leading component.
func majorOf(v string) string {
	for i := 0; i < len(v); i++ {
		if v[i] == '.' {
			return v[:i]
		}
	}
	return v
}
