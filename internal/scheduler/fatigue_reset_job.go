package scheduler

import (
	"errors"

	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/fatigue"
)

// FatigueResetJob sweeps one rolling window of the contact fatigue counters.
// The daily sweep is what keeps the engine's fatigue scoring honest; the
// weekly and monthly sweeps exist for reporting windows.
type FatigueResetJob struct {
	Window     string `json:"window" enums:"daily,weekly,monthly"`
	ScheduleID int64  `json:"-"`
}

// IsValid checks if the job definition is valid
func (job FatigueResetJob) IsValid() (bool, error) {
	switch job.Window {
	case "daily", "weekly", "monthly":
		return true, nil
	}
	return false, errors.New("invalid Window")
}

// Run performs the counter sweep
func (job FatigueResetJob) Run() {
	s := S()
	if s.ExistingRunningJob(job.ScheduleID) {
		zap.L().Info("Skipping fatigue reset job because another run is in progress", zap.Int64("id", job.ScheduleID))
		return
	}
	s.AddRunningJob(job.ScheduleID)
	defer s.RemoveRunningJob(job.ScheduleID)

	var affected int64
	var err error
	switch job.Window {
	case "daily":
		affected, err = fatigue.R().ResetDaily()
	case "weekly":
		affected, err = fatigue.R().ResetWeekly()
	case "monthly":
		affected, err = fatigue.R().ResetMonthly()
	}
	if err != nil {
		zap.L().Error("Fatigue counter reset failed", zap.String("window", job.Window), zap.Error(err))
		return
	}
	zap.L().Info("Fatigue counters reset", zap.String("window", job.Window), zap.Int64("records", affected))
}
