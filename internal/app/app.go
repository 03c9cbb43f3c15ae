package app

import (
	"github.com/fieldreach/intelligence-api/internal/engine"
)

// Init initialiaze all the app configuration and components and returns the
// wired decision engine
func Init() *engine.Engine {
	initConfiguration()
	initPostgres()
	initRepositories()

	eng := buildEngine()
	initServices(eng)
	return eng
}

// Stop cleanup everything before stopping the app
func Stop() {
	stopServices()
}
