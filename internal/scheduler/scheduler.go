// Package scheduler decides when update checks run. Checks are armed as
// one-shot self-rescheduling timers so a slow check can never cause
// back-to-back overlapping fires, and each check races a fixed timeout.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hubsync/bundlesync/internal/bundle"
	"github.com/hubsync/bundlesync/internal/events"
	"github.com/hubsync/bundlesync/internal/notify"
	"github.com/hubsync/bundlesync/internal/telemetry"
	"github.com/hubsync/bundlesync/internal/updater"
)

// Frequency is how often scheduled update checks run.
type Frequency string

const (
	// FrequencyDaily checks once every 24 hours
	FrequencyDaily Frequency = "daily"

	// FrequencyWeekly checks once every 7 days
	FrequencyWeekly Frequency = "weekly"

	// FrequencyManual never arms a periodic timer; checks run only on demand
	FrequencyManual Frequency = "manual"
)

// Valid reports whether f is a known frequency value.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyManual:
		return true
	}
	return false
}

// Interval returns the periodic check interval, or 0 for manual.
func (f Frequency) Interval() time.Duration {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	}
	return 0
}

const (
	// DefaultStartupCheckDelay is how long after Initialize the first check runs
	DefaultStartupCheckDelay = 5 * time.Second

	// DefaultCheckTimeout bounds one update check; a check that outlives it
	// has its result discarded
	DefaultCheckTimeout = 30 * time.Second
)

// ErrCheckInProgress is returned when a check is requested while another is
// already running.
var ErrCheckInProgress = errors.New("update check already in progress")

// ErrDisposed is returned for operations on a disposed scheduler.
var ErrDisposed = errors.New("scheduler is disposed")

// CheckTimeoutError reports one timed-out check cycle. The scheduler stays
// healthy and the next scheduled cycle still fires.
type CheckTimeoutError struct {
	Timeout time.Duration
}

func (e *CheckTimeoutError) Error() string {
	return fmt.Sprintf("update check timed out after %s", e.Timeout)
}

// State is the scheduler lifecycle state.
type State string

const (
	// StateUninitialized is the state before Initialize
	StateUninitialized State = "uninitialized"

	// StateIdle means no check is running
	StateIdle State = "idle"

	// StateCheckInProgress means a check is running
	StateCheckInProgress State = "check-in-progress"

	// StateDisposed is terminal
	StateDisposed State = "disposed"
)

// Config is the scheduler's configuration surface.
type Config struct {
	Enabled                bool
	Frequency              Frequency
	AutoUpdate             bool
	NotificationPreference notify.Preference
	StartupCheckDelay      time.Duration
	CheckTimeout           time.Duration
}

func (c *Config) applyDefaults() {
	if c.Frequency == "" {
		c.Frequency = FrequencyDaily
	}
	if c.NotificationPreference == "" {
		c.NotificationPreference = notify.PreferenceAll
	}
	if c.StartupCheckDelay <= 0 {
		c.StartupCheckDelay = DefaultStartupCheckDelay
	}
	if c.CheckTimeout <= 0 {
		c.CheckTimeout = DefaultCheckTimeout
	}
}

// Checker produces the list of candidate updates. bypassCache forces a fresh
// read of the hub data instead of any cached snapshot.
type Checker interface {
	CheckForUpdates(ctx context.Context, bypassCache bool) ([]bundle.UpdateCheckResult, error)
}

// BatchUpdater applies a list of candidate updates.
type BatchUpdater interface {
	AutoUpdateBundles(ctx context.Context, results []bundle.UpdateCheckResult) *updater.BatchResult
}

// Status is a point-in-time snapshot of the scheduler, served by the status
// endpoint.
type Status struct {
	State         State      `json:"state"`
	Enabled       bool       `json:"enabled"`
	Frequency     Frequency  `json:"frequency"`
	AutoUpdate    bool       `json:"autoUpdate"`
	LastCheckTime *time.Time `json:"lastCheckTime,omitempty"`
}

// Scheduler arms and fires update checks.
type Scheduler struct {
	checker Checker
	updater BatchUpdater
	sink    notify.Sink
	hub     *events.Hub[[]bundle.UpdateCheckResult]
	metrics *telemetry.CheckMetrics
	clock   clockwork.Clock
	logger  *slog.Logger

	mu              sync.Mutex
	cfg             Config
	state           State
	checkInProgress bool
	lastCheckTime   time.Time
	startupTimer    clockwork.Timer
	periodicTimer   clockwork.Timer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithConfig sets the scheduler configuration. Zero-value fields fall back to
// defaults.
func WithConfig(cfg Config) Option {
	return func(s *Scheduler) {
		s.cfg = cfg
	}
}

// WithClock injects the clock. Tests pass a fake clock; production uses the
// real one.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithBatchUpdater sets the executor that applies updates after a check when
// global auto-update is enabled.
func WithBatchUpdater(u BatchUpdater) Option {
	return func(s *Scheduler) {
		s.updater = u
	}
}

// WithSink sets the notification sink.
func WithSink(sink notify.Sink) Option {
	return func(s *Scheduler) {
		s.sink = sink
	}
}

// WithEventHub sets the hub check results are published to.
func WithEventHub(hub *events.Hub[[]bundle.UpdateCheckResult]) Option {
	return func(s *Scheduler) {
		s.hub = hub
	}
}

// WithMetrics sets the check metrics instruments.
func WithMetrics(m *telemetry.CheckMetrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New creates a Scheduler driving the given checker.
func New(checker Checker, opts ...Option) *Scheduler {
	s := &Scheduler{
		checker: checker,
		clock:   clockwork.NewRealClock(),
		logger:  slog.Default(),
		state:   StateUninitialized,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg.applyDefaults()
	return s
}

// Initialize arms the startup check and the periodic timer. When checks are
// disabled neither timer is armed. ctx is captured for timer-driven checks
// and should outlive the scheduler.
func (s *Scheduler) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDisposed {
		return ErrDisposed
	}
	if s.state == StateUninitialized {
		s.state = StateIdle
	}

	if !s.cfg.Enabled {
		s.logger.Info("scheduled update checks disabled")
		return nil
	}

	s.startupTimer = s.clock.AfterFunc(s.cfg.StartupCheckDelay, func() {
		go s.runScheduledCheck(ctx, false)
	})
	s.schedulePeriodicLocked(ctx)

	s.logger.Info("update scheduler initialized",
		"frequency", s.cfg.Frequency,
		"startup_delay", s.cfg.StartupCheckDelay)
	return nil
}

// schedulePeriodicLocked re-arms the periodic timer for the current config,
// clearing any pending one first. Manual frequency and disabled schedulers
// arm nothing. Caller must hold s.mu.
func (s *Scheduler) schedulePeriodicLocked(ctx context.Context) {
	if s.periodicTimer != nil {
		s.periodicTimer.Stop()
		s.periodicTimer = nil
	}
	if s.state == StateDisposed || !s.cfg.Enabled {
		return
	}
	interval := s.cfg.Frequency.Interval()
	if interval <= 0 {
		return
	}
	s.periodicTimer = s.clock.AfterFunc(interval, func() {
		go s.runScheduledCheck(ctx, true)
	})
}

// runScheduledCheck performs one timer-driven check. A fire that lands while
// a prior check is still running is skipped entirely; periodic fires always
// issue a fresh reschedule afterwards, skipped or not.
func (s *Scheduler) runScheduledCheck(ctx context.Context, periodic bool) {
	err := s.performUpdateCheck(ctx, false)
	switch {
	case errors.Is(err, ErrCheckInProgress):
		s.logger.Info("scheduled check skipped, previous check still running")
	case errors.Is(err, ErrDisposed):
		return
	case err != nil:
		s.logger.Error("scheduled update check failed", "error", err)
	}

	if periodic {
		s.mu.Lock()
		s.schedulePeriodicLocked(ctx)
		s.mu.Unlock()
	}
}

// CheckNow performs an immediate check that bypasses any cached hub data.
// It fails with ErrCheckInProgress when a check is already running.
func (s *Scheduler) CheckNow(ctx context.Context) error {
	return s.performUpdateCheck(ctx, true)
}

func (s *Scheduler) performUpdateCheck(ctx context.Context, bypassCache bool) error {
	s.mu.Lock()
	if s.state == StateDisposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	if s.checkInProgress {
		s.mu.Unlock()
		return ErrCheckInProgress
	}
	s.checkInProgress = true
	s.state = StateCheckInProgress
	timeout := s.cfg.CheckTimeout
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.checkInProgress = false
		if s.state == StateCheckInProgress {
			s.state = StateIdle
		}
		s.mu.Unlock()
	}()

	start := s.clock.Now()

	type outcome struct {
		results []bundle.UpdateCheckResult
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := s.checker.CheckForUpdates(ctx, bypassCache)
		done <- outcome{results: results, err: err}
	}()

	var results []bundle.UpdateCheckResult
	select {
	case out := <-done:
		if out.err != nil {
			s.metrics.RecordCheck(ctx, s.clock.Since(start), 0, false)
			return fmt.Errorf("update check failed: %w", out.err)
		}
		results = out.results
	case <-s.clock.After(timeout):
		// The checker goroutine may still finish later; its result lands in
		// the buffered channel and is discarded.
		s.metrics.RecordCheck(ctx, s.clock.Since(start), 0, false)
		return &CheckTimeoutError{Timeout: timeout}
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	s.lastCheckTime = s.clock.Now()
	autoUpdate := s.cfg.AutoUpdate
	pref := s.cfg.NotificationPreference
	s.mu.Unlock()

	s.metrics.RecordCheck(ctx, s.clock.Since(start), len(results), true)
	s.logger.Info("update check completed", "updates_found", len(results))

	if len(results) == 0 {
		return nil
	}

	if s.hub != nil {
		s.hub.Publish(results)
	}

	if autoUpdate && s.updater != nil {
		res := s.updater.AutoUpdateBundles(ctx, results)
		if len(res.Failed) > 0 {
			s.logger.Warn("some automatic updates failed",
				"successful", len(res.Successful),
				"failed", len(res.Failed))
		}
	}

	if s.sink != nil {
		s.sink.ShowUpdateNotification(ctx, results, pref)
	}
	return nil
}

// UpdateSchedule changes the check frequency and re-arms the periodic timer.
// Safe to call at any time, idempotent.
func (s *Scheduler) UpdateSchedule(ctx context.Context, frequency Frequency) error {
	if !frequency.Valid() {
		return fmt.Errorf("unknown frequency %q", frequency)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDisposed {
		return ErrDisposed
	}
	s.cfg.Frequency = frequency
	s.schedulePeriodicLocked(ctx)
	return nil
}

// UpdateEnabled turns scheduled checks on or off and re-arms the periodic
// timer accordingly. Safe to call at any time, idempotent.
func (s *Scheduler) UpdateEnabled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDisposed {
		return ErrDisposed
	}
	s.cfg.Enabled = enabled
	if !enabled && s.startupTimer != nil {
		s.startupTimer.Stop()
		s.startupTimer = nil
	}
	s.schedulePeriodicLocked(ctx)
	return nil
}

// Dispose cancels all pending timers and makes the scheduler terminal. It
// cannot abort a check already in flight; that check's result is discarded.
// Safe to call multiple times.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDisposed {
		return
	}
	if s.startupTimer != nil {
		s.startupTimer.Stop()
		s.startupTimer = nil
	}
	if s.periodicTimer != nil {
		s.periodicTimer.Stop()
		s.periodicTimer = nil
	}
	s.state = StateDisposed
}

// Status returns a snapshot of the scheduler.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		State:      s.state,
		Enabled:    s.cfg.Enabled,
		Frequency:  s.cfg.Frequency,
		AutoUpdate: s.cfg.AutoUpdate,
	}
	if !s.lastCheckTime.IsZero() {
		t := s.lastCheckTime
		st.LastCheckTime = &t
	}
	return st
}
