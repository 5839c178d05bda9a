// Package telemetry provides OpenTelemetry instrumentation for the sync engine.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// CheckMetricsMeterName is the name used for the update check meter
	CheckMetricsMeterName = "github.com/hubsync/bundlesync/check"

	// UpdateMetricsMeterName is the name used for the bundle update meter
	UpdateMetricsMeterName = "github.com/hubsync/bundlesync/update"
)

// CheckMetrics holds the OpenTelemetry instruments for update check cycles
type CheckMetrics struct {
	checkDuration metric.Float64Histogram
	updatesFound  metric.Int64Counter
}

// NewCheckMetrics creates a new CheckMetrics instance with the given meter
// provider. If provider is nil, it returns nil (no-op metrics).
func NewCheckMetrics(provider metric.MeterProvider) (*CheckMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(CheckMetricsMeterName)

	checkDuration, err := meter.Float64Histogram(
		"bundlesync_check_duration_seconds",
		metric.WithDescription("Duration of update check cycles in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	updatesFound, err := meter.Int64Counter(
		"bundlesync_updates_found_total",
		metric.WithDescription("Number of candidate updates produced by check cycles"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, err
	}

	return &CheckMetrics{
		checkDuration: checkDuration,
		updatesFound:  updatesFound,
	}, nil
}

// RecordCheck records the duration and outcome of one update check cycle
func (m *CheckMetrics) RecordCheck(ctx context.Context, duration time.Duration, found int, success bool) {
	if m == nil || m.checkDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}

	m.checkDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if found > 0 {
		m.updatesFound.Add(ctx, int64(found))
	}
}

// UpdateMetrics holds the OpenTelemetry instruments for bundle updates
type UpdateMetrics struct {
	updateOutcomes metric.Int64Counter
	rollbacks      metric.Int64Counter
}

// Outcome labels used by RecordUpdate
const (
	OutcomeSuccess    = "success"
	OutcomeFailure    = "failure"
	OutcomeRolledBack = "rolled-back"
)

// NewUpdateMetrics creates a new UpdateMetrics instance with the given meter
// provider. If provider is nil, it returns nil (no-op metrics).
func NewUpdateMetrics(provider metric.MeterProvider) (*UpdateMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(UpdateMetricsMeterName)

	updateOutcomes, err := meter.Int64Counter(
		"bundlesync_updates_total",
		metric.WithDescription("Bundle update attempts by outcome"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, err
	}

	rollbacks, err := meter.Int64Counter(
		"bundlesync_rollbacks_total",
		metric.WithDescription("Rollback attempts by outcome"),
		metric.WithUnit("{rollback}"),
	)
	if err != nil {
		return nil, err
	}

	return &UpdateMetrics{
		updateOutcomes: updateOutcomes,
		rollbacks:      rollbacks,
	}, nil
}

// RecordUpdate records the outcome of one bundle update attempt
func (m *UpdateMetrics) RecordUpdate(ctx context.Context, bundleID, outcome string) {
	if m == nil || m.updateOutcomes == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("bundle", bundleID),
		attribute.String("outcome", outcome),
	}

	m.updateOutcomes.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRollback records one rollback attempt for a bundle
func (m *UpdateMetrics) RecordRollback(ctx context.Context, bundleID string, success bool) {
	if m == nil || m.rollbacks == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("bundle", bundleID),
		attribute.Bool("success", success),
	}

	m.rollbacks.Add(ctx, 1, metric.WithAttributes(attrs...))
}
