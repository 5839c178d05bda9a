package history

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend selects the history storage backend.
type Backend string

const (
	// BackendMemory keeps history for the process lifetime only
	BackendMemory Backend = "memory"

	// BackendDatabase persists history to PostgreSQL
	BackendDatabase Backend = "database"
)

// NewLog creates a history log for the configured backend.
//
// For the memory backend the pool is ignored. For the database backend the
// pool must not be nil.
func NewLog(backend Backend, pool *pgxpool.Pool) (Log, error) {
	switch backend {
	case BackendDatabase:
		if pool == nil {
			return nil, fmt.Errorf("database pool is required when history backend is database")
		}
		return NewDBLog(pool)
	case BackendMemory, "":
		return NewMemoryLog(), nil
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", backend)
	}
}
