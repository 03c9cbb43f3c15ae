package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/scheduler"
	"github.com/fieldreach/intelligence-api/pkg/utils/httputil"
)

// GetJobSchedules godoc
// @Summary Get all JobSchedules
// @Description Get all JobSchedules from scheduler repository
// @Tags Scheduler
// @Produce json
// @Security Bearer
// @Success 200 {array} scheduler.InternalSchedule "list of schedules"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/scheduler/jobs [get]
func GetJobSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := scheduler.R().GetAll()
	if err != nil {
		zap.L().Error("Cannot get schedules", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}

	schedulesSlice := make([]scheduler.InternalSchedule, 0)
	for _, schedule := range schedules {
		schedulesSlice = append(schedulesSlice, schedule)
	}

	sort.SliceStable(schedulesSlice, func(i, j int) bool {
		return schedulesSlice[i].ID < schedulesSlice[j].ID
	})

	httputil.JSON(w, r, schedulesSlice)
}

// GetJobSchedule godoc
// @Summary Get a JobSchedule
// @Description Get a specific JobSchedule by it's ID
// @Tags Scheduler
// @Produce json
// @Param id path string true "job ID"
// @Security Bearer
// @Success 200 {object} scheduler.InternalSchedule "schedule"
// @Failure 404 "Status Not Found"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/scheduler/jobs/{id} [get]
func GetJobSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	idJob, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		zap.L().Warn("Parsing JobSchedule id", zap.String("JobScheduleID", id), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIParsingInteger, err)
		return
	}

	jobSchedule, found, err := scheduler.R().Get(idJob)
	if err != nil {
		zap.L().Error("Get JobSchedule from repository", zap.Int64("id", idJob), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}
	if !found {
		zap.L().Warn("Job not found", zap.Int64("id", idJob))
		httputil.Error(w, r, httputil.ErrAPIDBResourceNotFound, err)
		return
	}

	httputil.JSON(w, r, jobSchedule)
}

// ValidateJobSchedule godoc
// @Summary Validate a new JobSchedule definition
// @Description Validate a new JobSchedule definition
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param job body scheduler.InternalSchedule true "JobSchedule definition (json)"
// @Security Bearer
// @Success 200 {object} scheduler.InternalSchedule "schedule"
// @Failure 400 "Status Bad Request"
// @Router /engine/scheduler/jobs/validate [post]
func ValidateJobSchedule(w http.ResponseWriter, r *http.Request) {
	var newSchedule scheduler.InternalSchedule
	err := json.NewDecoder(r.Body).Decode(&newSchedule)
	if err != nil {
		zap.L().Warn("Job schedule json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}

	if ok, err := newSchedule.IsValid(); !ok {
		zap.L().Warn("Schedule is invalid", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, err)
		return
	}

	httputil.JSON(w, r, newSchedule)
}

// PostJobSchedule godoc
// @Summary Create a JobSchedule
// @Description Create a new JobSchedule and register it on the running scheduler
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param job body scheduler.InternalSchedule true "JobSchedule definition (json)"
// @Security Bearer
// @Success 200 {object} scheduler.InternalSchedule "schedule"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/scheduler/jobs [post]
func PostJobSchedule(w http.ResponseWriter, r *http.Request) {
	var newSchedule scheduler.InternalSchedule
	err := json.NewDecoder(r.Body).Decode(&newSchedule)
	if err != nil {
		zap.L().Warn("Job schedule json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}

	if ok, err := newSchedule.IsValid(); !ok {
		zap.L().Warn("Schedule is invalid", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, err)
		return
	}

	idJob, err := scheduler.R().Create(newSchedule)
	if err != nil {
		zap.L().Error("Error while creating JobSchedule", zap.String("name", newSchedule.Name), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBInsertFailed, err)
		return
	}

	jobSchedule, found, err := scheduler.R().Get(idJob)
	if err != nil {
		zap.L().Error("Get JobSchedule from repository", zap.Int64("id", idJob), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}
	if !found {
		zap.L().Warn("Job not found after creation", zap.Int64("id", idJob))
		httputil.Error(w, r, httputil.ErrAPIDBResourceNotFound, err)
		return
	}

	if jobSchedule.Enabled {
		err = scheduler.S().AddJobSchedule(jobSchedule)
		if err != nil {
			zap.L().Error("Error while adding JobSchedule to the scheduler", zap.Int64("id", jobSchedule.ID), zap.Error(err))

			err := scheduler.R().Delete(idJob)
			if err != nil {
				zap.L().Error("Error while rollbacking JobSchedule creation", zap.Int64("id", jobSchedule.ID), zap.Error(err))
			}

			httputil.Error(w, r, httputil.ErrAPIProcessError, err)
			return
		}
	}

	httputil.JSON(w, r, jobSchedule)
}

// PutJobSchedule godoc
// @Summary Create or replace a JobSchedule
// @Description Create or replace a JobSchedule
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param id path string true "JobSchedule ID"
// @Param job body scheduler.InternalSchedule true "JobSchedule definition (json)"
// @Security Bearer
// @Success 200 {object} scheduler.InternalSchedule "schedule"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/scheduler/jobs/{id} [put]
func PutJobSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	idJob, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		zap.L().Warn("Parsing JobSchedule id", zap.String("JobScheduleID", id), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIParsingInteger, err)
		return
	}

	var newSchedule scheduler.InternalSchedule
	err = json.NewDecoder(r.Body).Decode(&newSchedule)
	if err != nil {
		zap.L().Warn("Job schedule json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}
	newSchedule.ID = idJob

	if ok, err := newSchedule.IsValid(); !ok {
		zap.L().Warn("Schedule is invalid", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, err)
		return
	}

	err = scheduler.R().Update(newSchedule)
	if err != nil {
		zap.L().Error("Error while updating JobSchedule", zap.Int64("id", newSchedule.ID), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBUpdateFailed, err)
		return
	}

	jobSchedule, found, err := scheduler.R().Get(idJob)
	if err != nil {
		zap.L().Error("Get JobSchedule from repository", zap.Int64("id", idJob), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}
	if !found {
		zap.L().Warn("Job not found after update", zap.Int64("id", idJob))
		httputil.Error(w, r, httputil.ErrAPIDBResourceNotFound, err)
		return
	}

	if jobSchedule.Enabled {
		err = scheduler.S().AddJobSchedule(jobSchedule)
		if err != nil {
			zap.L().Error("Error while updating JobSchedule", zap.Int64("id", jobSchedule.ID), zap.Error(err))
			httputil.Error(w, r, httputil.ErrAPIProcessError, err)
			return
		}
	} else {
		scheduler.S().RemoveJobSchedule(idJob)
	}

	httputil.JSON(w, r, jobSchedule)
}

// DeleteJobSchedule godoc
// @Summary Delete a JobSchedule
// @Description Delete a JobSchedule and unregister it from the running scheduler
// @Tags Scheduler
// @Produce json
// @Param id path string true "JobSchedule ID"
// @Security Bearer
// @Success 200 "Status OK"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/scheduler/jobs/{id} [delete]
func DeleteJobSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	idJob, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		zap.L().Warn("Parsing JobSchedule id", zap.String("JobScheduleID", id), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIParsingInteger, err)
		return
	}

	err = scheduler.R().Delete(idJob)
	if err != nil {
		zap.L().Error("Delete JobSchedule", zap.String("id", id), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBDeleteFailed, err)
		return
	}

	scheduler.S().RemoveJobSchedule(idJob)

	httputil.OK(w, r)
}

// TriggerJobSchedule godoc
// @Summary Force a maintenance job run
// @Description Run a job definition immediately, outside its schedule
// @Description Example :
// @Description <pre>{"jobtype":"fatigue_reset","job":{"window":"daily"}}</pre>
// @Tags Scheduler
// @Produce json
// @Param job body scheduler.InternalSchedule true "JobSchedule definition (json)"
// @Security Bearer
// @Success 200 "Status OK"
// @Failure 400 "Status Bad Request"
// @Router /engine/scheduler/trigger [post]
func TriggerJobSchedule(w http.ResponseWriter, r *http.Request) {
	var newSchedule scheduler.InternalSchedule
	err := json.NewDecoder(r.Body).Decode(&newSchedule)
	if err != nil {
		zap.L().Warn("Job schedule json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}

	if ok, err := newSchedule.Job.IsValid(); !ok {
		zap.L().Warn("Job is invalid", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, err)
		return
	}

	newSchedule.Job.Run()

	httputil.OK(w, r)
}
