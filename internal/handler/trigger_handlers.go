package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/trigger"
	"github.com/fieldreach/intelligence-api/pkg/utils/httputil"
)

// GetTriggers godoc
// @Summary Get all triggers
// @Description Get all triggers from the repository
// @Tags Triggers
// @Produce json
// @Security Bearer
// @Success 200 {array} trigger.Trigger "list of triggers"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/triggers [get]
func GetTriggers(w http.ResponseWriter, r *http.Request) {
	triggers, err := trigger.R().GetAll()
	if err != nil {
		zap.L().Error("Cannot get triggers", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}

	httputil.JSON(w, r, triggers)
}

// GetTrigger godoc
// @Summary Get a trigger
// @Description Get a specific trigger by it's ID
// @Tags Triggers
// @Produce json
// @Param id path string true "trigger ID"
// @Security Bearer
// @Success 200 {object} trigger.Trigger "trigger"
// @Failure 400 "Status Bad Request"
// @Failure 404 "Status Not Found"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/triggers/{id} [get]
func GetTrigger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	idTrigger, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		zap.L().Warn("Parsing trigger id", zap.String("triggerID", id), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIParsingInteger, err)
		return
	}

	t, found, err := trigger.R().Get(idTrigger)
	if err != nil {
		zap.L().Error("Get trigger from repository", zap.Int64("id", idTrigger), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}
	if !found {
		zap.L().Warn("Trigger not found", zap.Int64("id", idTrigger))
		httputil.Error(w, r, httputil.ErrAPIDBResourceNotFound, err)
		return
	}

	httputil.JSON(w, r, t)
}

// ValidateTrigger godoc
// @Summary Validate a new trigger definition
// @Description Validate a new trigger definition, including its condition expression
// @Tags Triggers
// @Accept json
// @Produce json
// @Param trigger body trigger.Trigger true "Trigger definition (json)"
// @Security Bearer
// @Success 200 {object} trigger.Trigger "trigger"
// @Failure 400 "Status Bad Request"
// @Router /engine/triggers/validate [post]
func ValidateTrigger(w http.ResponseWriter, r *http.Request) {
	var newTrigger trigger.Trigger
	err := json.NewDecoder(r.Body).Decode(&newTrigger)
	if err != nil {
		zap.L().Warn("Trigger json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}

	if ok, err := newTrigger.IsValid(); !ok {
		zap.L().Warn("Trigger is invalid", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, err)
		return
	}

	httputil.JSON(w, r, newTrigger)
}

// PostTrigger godoc
// @Summary Create a trigger
// @Description Register a new event trigger
// @Tags Triggers
// @Accept json
// @Produce json
// @Param trigger body trigger.Trigger true "Trigger definition (json)"
// @Security Bearer
// @Success 200 {object} trigger.Trigger "trigger"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/triggers [post]
func PostTrigger(w http.ResponseWriter, r *http.Request) {
	var newTrigger trigger.Trigger
	err := json.NewDecoder(r.Body).Decode(&newTrigger)
	if err != nil {
		zap.L().Warn("Trigger json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}

	if ok, err := newTrigger.IsValid(); !ok {
		zap.L().Warn("Trigger is invalid", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, err)
		return
	}

	idTrigger, err := trigger.R().Create(newTrigger)
	if err != nil {
		zap.L().Error("Error while creating trigger", zap.String("name", newTrigger.Name), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBInsertFailed, err)
		return
	}

	t, found, err := trigger.R().Get(idTrigger)
	if err != nil {
		zap.L().Error("Get trigger from repository", zap.Int64("id", idTrigger), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}
	if !found {
		zap.L().Warn("Trigger not found after creation", zap.Int64("id", idTrigger))
		httputil.Error(w, r, httputil.ErrAPIDBResourceNotFound, err)
		return
	}

	httputil.JSON(w, r, t)
}

// PutTrigger godoc
// @Summary Update a trigger
// @Description Replace an existing trigger definition
// @Tags Triggers
// @Accept json
// @Produce json
// @Param id path string true "trigger ID"
// @Param trigger body trigger.Trigger true "Trigger definition (json)"
// @Security Bearer
// @Success 200 {object} trigger.Trigger "trigger"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/triggers/{id} [put]
func PutTrigger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	idTrigger, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		zap.L().Warn("Parsing trigger id", zap.String("triggerID", id), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIParsingInteger, err)
		return
	}

	var newTrigger trigger.Trigger
	err = json.NewDecoder(r.Body).Decode(&newTrigger)
	if err != nil {
		zap.L().Warn("Trigger json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}
	newTrigger.ID = idTrigger

	if ok, err := newTrigger.IsValid(); !ok {
		zap.L().Warn("Trigger is invalid", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, err)
		return
	}

	err = trigger.R().Update(newTrigger)
	if err != nil {
		zap.L().Error("Error while updating trigger", zap.Int64("id", idTrigger), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBUpdateFailed, err)
		return
	}

	t, found, err := trigger.R().Get(idTrigger)
	if err != nil {
		zap.L().Error("Get trigger from repository", zap.Int64("id", idTrigger), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}
	if !found {
		zap.L().Warn("Trigger not found after update", zap.Int64("id", idTrigger))
		httputil.Error(w, r, httputil.ErrAPIDBResourceNotFound, err)
		return
	}

	httputil.JSON(w, r, t)
}

// DeleteTrigger godoc
// @Summary Disable a trigger
// @Description Disable a trigger. Triggers are never removed so that their firing history stays readable.
// @Tags Triggers
// @Produce json
// @Param id path string true "trigger ID"
// @Security Bearer
// @Success 200 "Status OK"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/triggers/{id} [delete]
func DeleteTrigger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	idTrigger, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		zap.L().Warn("Parsing trigger id", zap.String("triggerID", id), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIParsingInteger, err)
		return
	}

	err = trigger.R().SetEnabled(idTrigger, false)
	if err != nil {
		zap.L().Error("Disable trigger", zap.Int64("id", idTrigger), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBUpdateFailed, err)
		return
	}

	httputil.OK(w, r)
}
