package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubsync/bundlesync/internal/bundle"
)

func TestFilterByPreference(t *testing.T) {
	t.Parallel()

	minor := bundle.UpdateCheckResult{BundleID: "a", CurrentVersion: "1.0.0", LatestVersion: "1.2.0"}
	major := bundle.UpdateCheckResult{BundleID: "b", CurrentVersion: "1.9.0", LatestVersion: "2.0.0"}
	updates := []bundle.UpdateCheckResult{minor, major}

	tests := []struct {
		name     string
		pref     Preference
		expected []bundle.UpdateCheckResult
	}{
		{name: "all keeps everything", pref: PreferenceAll, expected: updates},
		{name: "none keeps nothing", pref: PreferenceNone, expected: nil},
		{name: "critical keeps major bumps only", pref: PreferenceCritical, expected: []bundle.UpdateCheckResult{major}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, FilterByPreference(updates, tt.pref))
		})
	}
}

func TestSlogSink_SuppressesFilteredNotifications(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewSlogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	updates := []bundle.UpdateCheckResult{
		{BundleID: "a", CurrentVersion: "1.0.0", LatestVersion: "1.0.1"},
	}

	sink.ShowUpdateNotification(context.Background(), updates, PreferenceNone)
	assert.Empty(t, buf.String())

	sink.ShowUpdateNotification(context.Background(), updates, PreferenceAll)
	assert.Contains(t, buf.String(), "Bundle updates available")
}

func TestSlogSink_BatchSummaryListsFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewSlogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	sink.ShowBatchUpdateSummary(context.Background(),
		[]string{"a"},
		[]FailedUpdate{{BundleID: "b", Message: "verification failed"}},
	)

	out := buf.String()
	assert.Contains(t, out, "Batch update finished")
	assert.Contains(t, out, "verification failed")
}

func TestPreference_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, PreferenceAll.Valid())
	assert.True(t, PreferenceCritical.Valid())
	assert.True(t, PreferenceNone.Valid())
	assert.False(t, Preference("sometimes").Valid())
}
