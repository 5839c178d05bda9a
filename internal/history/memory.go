package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hubsync/bundlesync/internal/bundle"
)

// memoryLog keeps history for the lifetime of the process. It is the default
// backend; the database backend provides durability across restarts.
type memoryLog struct {
	mu      sync.RWMutex
	entries map[string][]*Entry // keyed by hub/profile, most recent first
}

// NewMemoryLog creates an empty in-memory history log.
func NewMemoryLog() Log {
	return &memoryLog{entries: make(map[string][]*Entry)}
}

func logKey(hubID, profileID string) string {
	return hubID + "/" + profileID
}

func (l *memoryLog) RecordSync(
	_ context.Context,
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

	key := logKey(hubID, profileID)

	l.mu.Lock()
	defer l.mu.Unlock()
	// Prepend: insertion order is the history order, most recent first.
	l.entries[key] = append([]*Entry{entry}, l.entries[key]...)

	cp := *entry
	return &cp, nil
}

func (l *memoryLog) GetHistory(_ context.Context, hubID, profileID string, limit int) ([]*Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.entries[logKey(hubID, profileID)]
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}

	// Return copies to keep stored entries immutable.
	result := make([]*Entry, 0, limit)
	for _, e := range entries[:limit] {
		cp := *e
		result = append(result, &cp)
	}
	return result, nil
}

func (l *memoryLog) ClearHistory(_ context.Context, hubID, profileID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, logKey(hubID, profileID))
	return nil
}

func (l *memoryLog) ClearAllHistory(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string][]*Entry)
	return nil
}
