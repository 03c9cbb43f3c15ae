package budget

import (
	"sync"
)

// Repository is a storage interface which can be implemented by multiple backend
// (in-memory map, sql database, in-memory cache, file system, ...)
// It allows operations on the budget ledger
type Repository interface {
	Upsert(record Record) error
	Get(candidateID string, channel string) (Record, bool, error)
	GetAllForCandidate(candidateID string) ([]Record, error)
	SumRemaining(candidateID string) (float64, error)
	RecordSpend(candidateID string, channel string, amount float64) error
	ResetDaily() (int64, error)
	ResetWeekly() (int64, error)
	ResetMonthly() (int64, error)
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
