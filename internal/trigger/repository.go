package trigger

import (
	"sync"
	"time"
)

// Repository is a storage interface which can be implemented by multiple backend
// (in-memory map, sql database, in-memory cache, file system, ...)
// It allows standard CRUD operation on triggers
type Repository interface {
	Create(t Trigger) (int64, error)
	Get(id int64) (Trigger, bool, error)
	GetActiveByName(name string) (Trigger, bool, error)
	Update(t Trigger) error
	SetEnabled(id int64, enabled bool) error
	Touch(id int64, firedAt time.Time) error
	GetAll() ([]Trigger, error)
	GetAllEnabled() ([]Trigger, error)
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
