package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewCheckMetrics_NilProvider(t *testing.T) {
	t.Parallel()

	m, err := NewCheckMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	// Recording on nil metrics must be a no-op, not a panic.
	assert.NotPanics(t, func() {
		m.RecordCheck(context.Background(), time.Second, 3, true)
	})
}

func TestNewUpdateMetrics_NilProvider(t *testing.T) {
	t.Parallel()

	m, err := NewUpdateMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	assert.NotPanics(t, func() {
		m.RecordUpdate(context.Background(), "a", OutcomeSuccess)
		m.RecordRollback(context.Background(), "a", false)
	})
}

func TestMetrics_WithProvider(t *testing.T) {
	t.Parallel()

	provider := noop.NewMeterProvider()

	cm, err := NewCheckMetrics(provider)
	require.NoError(t, err)
	require.NotNil(t, cm)
	cm.RecordCheck(context.Background(), 250*time.Millisecond, 0, false)

	um, err := NewUpdateMetrics(provider)
	require.NoError(t, err)
	require.NotNil(t, um)
	um.RecordUpdate(context.Background(), "a", OutcomeRolledBack)
	um.RecordRollback(context.Background(), "a", true)
}
