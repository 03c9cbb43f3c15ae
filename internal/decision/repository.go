package decision

import (
	"sync"
	"time"
)

// Repository is a storage interface which can be implemented by multiple backend
// (in-memory map, sql database, in-memory cache, file system, ...)
// It allows standard operations on the decision log
type Repository interface {
	Create(d Decision) (string, error)
	Get(id string) (Decision, bool, error)
	GetAllFromTo(from time.Time, to time.Time) ([]Decision, error)
	GetLatestForCandidate(candidateID string, limit int) ([]Decision, error)
	MarkExecuted(id string, executedAt time.Time) error
}

var (
	_globalRepositoryMu sync.RWMutex
	_globalRepository   Repository
)

// R is used to access the global repository singleton
func R() Repository {
	_globalRepositoryMu.RLock()
	defer _globalRepositoryMu.RUnlock()

	repository := _globalRepository
	return repository
}

// ReplaceGlobals affect a new repository to the global repository singleton
func ReplaceGlobals(repository Repository) func() {
	_globalRepositoryMu.Lock()
	defer _globalRepositoryMu.Unlock()

	prev := _globalRepository
	_globalRepository = repository
	return func() { ReplaceGlobals(prev) }
}
