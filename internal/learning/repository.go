package learning

import (
	"sync"

	"github.com/fieldreach/intelligence-api/internal/trigger"
)

// Repository is a storage interface which can be implemented by multiple backend
// (in-memory map, sql database, in-memory cache, file system, ...)
// It allows operations on the learning store
type Repository interface {
	RecordOutcome(outcome Outcome) error
	AvgROI(category trigger.Category) (float64, bool, error)
	Get(category trigger.Category, channel string, segment string) (Stats, bool, error)
	GetAll() ([]Stats, error)
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
