package ports

import (
	"time"

	"go.trai.ch/catalyst/internal/core/domain"
)

// SessionStore owns the session directories.
//
//go:generate mockgen -source=session_store.go -destination=mocks/mock_session_store.go -package=mocks
type SessionStore interface {
	// Create allocates a fresh session and its empty directory.
	Create() (domain.Session, error)
	// Commit records the named files of a session in its manifest.
	Commit(session domain.Session, names []string) (domain.Session, error)
	// Get loads a session from its manifest.
	Get(id string) (domain.Session, error)
	// Resolve maps a session id and file name to a readable file.
	Resolve(id, name string) (domain.FileHandle, error)
	// List returns all committed sessions, oldest first.
	List() ([]domain.Session, error)
	// Delete removes a session and its files.
	Delete(id string) error
	// Prune removes sessions older than the given age and returns their ids.
	Prune(olderThan time.Duration) ([]string, error)
}
