package scheduler

import (
	"errors"

	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/budget"
)

// BudgetResetJob sweeps one rolling window of the budget ledger spend counters
type BudgetResetJob struct {
	Window     string `json:"window" enums:"daily,weekly,monthly"`
	ScheduleID int64  `json:"-"`
}

// IsValid checks if the job definition is valid
func (job BudgetResetJob) IsValid() (bool, error) {
	switch job.Window {
	case "daily", "weekly", "monthly":
		return true, nil
	}
	return false, errors.New("invalid Window")
}

// Run performs the counter sweep
func (job BudgetResetJob) Run() {
	s := S()
	if s.ExistingRunningJob(job.ScheduleID) {
		zap.L().Info("Skipping budget reset job because another run is in progress", zap.Int64("id", job.ScheduleID))
		return
	}
	s.AddRunningJob(job.ScheduleID)
	defer s.RemoveRunningJob(job.ScheduleID)

	var affected int64
	var err error
	switch job.Window {
	case "daily":
		affected, err = budget.R().ResetDaily()
	case "weekly":
		affected, err = budget.R().ResetWeekly()
	case "monthly":
		affected, err = budget.R().ResetMonthly()
	}
	if err != nil {
		zap.L().Error("Budget spend reset failed", zap.String("window", job.Window), zap.Error(err))
		return
	}
	zap.L().Info("Budget spend counters reset", zap.String("window", job.Window), zap.Int64("records", affected))
}
