package scheduler

import (
	"encoding/json"
	"errors"

	"github.com/robfig/cron/v3"
)

// InternalJob embed the external "standard" cron job with some additionnal data
type InternalJob interface {
	cron.Job
	IsValid() (bool, error)
}

// InternalSchedule wrap a schedule
type InternalSchedule struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	CronExpr string      `json:"cronexpr" example:"5 0 * * *"`
	JobType  string      `json:"jobtype" enums:"fatigue_reset,budget_reset"`
	Job      InternalJob `json:"job"`
	Enabled  bool        `json:"enabled"`
}

// IsValid checks if an internal schedule definition is valid and has no missing mandatory fields
func (schedule *InternalSchedule) IsValid() (bool, error) {
	if schedule.Name == "" {
		return false, errors.New("missing Name")
	}
	if schedule.CronExpr == "" {
		return false, errors.New("missing CronExpr")
	}
	if _, err := cronParser.Parse(schedule.CronExpr); err != nil {
		return false, errors.New("invalid CronExpr" + err.Error())
	}
	if schedule.JobType == "" {
		return false, errors.New("missing JobType")
	}
	if schedule.JobType != "fatigue_reset" && schedule.JobType != "budget_reset" {
		return false, errors.New("invalid JobType")
	}
	if schedule.Job == nil {
		return false, errors.New("missing Job")
	}
	if ok, err := schedule.Job.IsValid(); !ok {
		return false, errors.New("job is invalid:" + err.Error())
	}
	return true, nil
}

// UnmarshalJSON unmarshals a json object as a InternalSchedule
func (schedule *InternalSchedule) UnmarshalJSON(data []byte) error {
	type Alias InternalSchedule
	aux := &struct {
		Job *json.RawMessage `json:"job"`
		*Alias
	}{
		Alias: (*Alias)(schedule),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Job == nil {
		return errors.New("missing job definition")
	}
	job, err := UnmarshalInternalJob(aux.JobType, *aux.Job, aux.ID)
	if err != nil {
		return err
	}
	schedule.Job = job
	return nil
}

// UnmarshalInternalJob unmarshal a maintenance job from a json string
func UnmarshalInternalJob(t string, b json.RawMessage, scheduleID int64) (InternalJob, error) {
	var job InternalJob
	var err error
	switch t {
	case "fatigue_reset":
		var tJob FatigueResetJob
		err = json.Unmarshal(b, &tJob)
		tJob.ScheduleID = scheduleID
		job = tJob
	case "budget_reset":
		var tJob BudgetResetJob
		err = json.Unmarshal(b, &tJob)
		tJob.ScheduleID = scheduleID
		job = tJob
	default:
		return nil, errors.New("unknown job type: " + t)
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}
