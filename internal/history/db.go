package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubsync/bundlesync/internal/bundle"
)

// dbLog is a Log implementation that persists entries to PostgreSQL, giving
// history durability across restarts. Insertion order is preserved by a
// sequence column, not by the timestamp.
type dbLog struct {
	pool *pgxpool.Pool
}

// NewDBLog creates a database-backed history log with the given connection
// pool. The caller is responsible for closing the pool when done.
func NewDBLog(pool *pgxpool.Pool) (Log, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &dbLog{pool: pool}, nil
}

// EnsureSchema creates the history table if it does not exist. Called once at
// startup by the daemon.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sync_history (
			seq            BIGSERIAL PRIMARY KEY,
			id             UUID NOT NULL UNIQUE,
			hub_id         TEXT NOT NULL,
			profile_id     TEXT NOT NULL,
			recorded_at    TIMESTAMPTZ NOT NULL,
			status         TEXT NOT NULL,
			changes        JSONB NOT NULL,
			previous_state JSONB NOT NULL,
			error_msg      TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS sync_history_pair_idx
			ON sync_history (hub_id, profile_id, seq DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to create sync history schema: %w", err)
	}
	return nil
}

func (l *dbLog) RecordSync(
	ctx context.Context,
	hubID, profileID string,
	changes bundle.ProfileChanges,
	previous PreviousState,
	status Status,
	syncErr error,
) (*Entry, error) {
	entry := &Entry{
		ID:            uuid.New(),
		HubID:         hubID,
		ProfileID:     profileID,
		Timestamp:     time.Now(),
		Status:        status,
		Changes:       changes,
		PreviousState: previous,
	}
	if syncErr != nil {
		entry.Error = syncErr.Error()
	}

	changesJSON, err := json.Marshal(entry.Changes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal changes: %w", err)
	}
	previousJSON, err := json.Marshal(entry.PreviousState)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal previous state: %w", err)
	}

	_, err = l.pool.Exec(ctx, `
		INSERT INTO sync_history (id, hub_id, profile_id, recorded_at, status, changes, previous_state, error_msg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, entry.HubID, entry.ProfileID, entry.Timestamp, string(entry.Status), changesJSON, previousJSON, entry.Error)
	if err != nil {
		return nil, fmt.Errorf("failed to insert history entry: %w", err)
	}

	return entry, nil
}

func (l *dbLog) GetHistory(ctx context.Context, hubID, profileID string, limit int) ([]*Entry, error) {
	query := `
		SELECT id, hub_id, profile_id, recorded_at, status, changes, previous_state, error_msg
		FROM sync_history
		WHERE hub_id = $1 AND profile_id = $2
		ORDER BY seq DESC
	`
	args := []any{hubID, profileID}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			e            Entry
			status       string
			changesJSON  []byte
			previousJSON []byte
		)
		if err := rows.Scan(&e.ID, &e.HubID, &e.ProfileID, &e.Timestamp, &status, &changesJSON, &previousJSON, &e.Error); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Status = Status(status)
		if err := json.Unmarshal(changesJSON, &e.Changes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal changes: %w", err)
		}
		if err := json.Unmarshal(previousJSON, &e.PreviousState); err != nil {
			return nil, fmt.Errorf("failed to unmarshal previous state: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	return entries, nil
}

func (l *dbLog) ClearHistory(ctx context.Context, hubID, profileID string) error {
	_, err := l.pool.Exec(ctx,
		`DELETE FROM sync_history WHERE hub_id = $1 AND profile_id = $2`,
		hubID, profileID)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (l *dbLog) ClearAllHistory(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, `DELETE FROM sync_history`); err != nil {
		return fmt.Errorf("failed to clear all history: %w", err)
	}
	return nil
}
