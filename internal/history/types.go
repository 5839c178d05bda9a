// Package history contains the append-only per-(hub,profile) log of sync
// outcomes and the rollback machinery built on top of it.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hubsync/bundlesync/internal/bundle"
)

// Status classifies the outcome a history entry records.
type Status string

const (
	// StatusSuccess records a completed synchronization
	StatusSuccess Status = "success"

	// StatusFailure records a failed synchronization
	StatusFailure Status = "failure"

	// StatusRollback records a rollback to a previously synchronized state
	StatusRollback Status = "rollback"
)

// PreviousState is the bundle set that was active immediately before the
// sync that an entry records. It is what a rollback restores.
type PreviousState struct {
	Bundles     []bundle.Ref `json:"bundles"`
	ActivatedAt time.Time    `json:"activatedAt"`
}

// Entry is one recorded sync outcome. Entries are immutable after creation:
// a rollback appends a new entry, it never mutates an old one.
type Entry struct {
	ID            uuid.UUID             `json:"id"`
	HubID         string                `json:"hubId"`
	ProfileID     string                `json:"profileId"`
	Timestamp     time.Time             `json:"timestamp"`
	Status        Status                `json:"status"`
	Changes       bundle.ProfileChanges `json:"changes"`
	PreviousState PreviousState         `json:"previousState"`
	Error         string                `json:"error,omitempty"`
}

// Log is the append-only sync history. Entries are ordered by insertion, most
// recent first, independent of wall-clock timestamp resolution.
type Log interface {
	// RecordSync appends a new entry for the (hub, profile) pair and returns
	// it. syncErr may be nil.
	RecordSync(
		ctx context.Context,
		hubID, profileID string,
		changes bundle.ProfileChanges,
		previous PreviousState,
		status Status,
		syncErr error,
	) (*Entry, error)

	// GetHistory returns up to limit most-recent entries for the pair, or all
	// entries when limit <= 0.
	GetHistory(ctx context.Context, hubID, profileID string, limit int) ([]*Entry, error)

	// ClearHistory removes all entries for the pair. It is immediate and
	// unconfirmed; confirmation is the caller's responsibility.
	ClearHistory(ctx context.Context, hubID, profileID string) error

	// ClearAllHistory removes all entries for all pairs.
	ClearAllHistory(ctx context.Context) error
}
