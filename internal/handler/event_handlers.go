package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/engine"
	"github.com/fieldreach/intelligence-api/internal/fatigue"
	"github.com/fieldreach/intelligence-api/internal/learning"
	"github.com/fieldreach/intelligence-api/pkg/utils/httputil"
)

// EngineHandler exposes the decision engine processing surface over HTTP.
// It is the only handler carrying state, since the engine itself is built by
// the composition root and not accessible through a global.
type EngineHandler struct {
	engine *engine.Engine
}

// NewEngineHandler returns a new EngineHandler wrapping the given engine
func NewEngineHandler(eng *engine.Engine) *EngineHandler {
	return &EngineHandler{engine: eng}
}

// PostEvent godoc
// @Summary Process a campaign event
// @Description Score an inbound event and return the engine decision with its execution plan
// @Tags Events
// @Accept json
// @Produce json
// @Param event body engine.Event true "Event definition (json)"
// @Security Bearer
// @Success 200 {object} engine.Result "decision"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/events [post]
func (h *EngineHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var event engine.Event
	err := json.NewDecoder(r.Body).Decode(&event)
	if err != nil {
		zap.L().Warn("Event json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}
	if event.Type == "" {
		httputil.Error(w, r, httputil.ErrAPIMissingParam, errors.New("missing event type"))
		return
	}

	result, err := h.engine.ProcessEvent(event)
	if err != nil {
		zap.L().Error("Event processing failed", zap.String("type", event.Type), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIProcessError, err)
		return
	}

	httputil.JSON(w, r, result)
}

// PostContact godoc
// @Summary Record an outbound contact
// @Description Increment the fatigue counters of one contact on one channel
// @Tags Contacts
// @Produce json
// @Param contactID path string true "contact ID"
// @Param channel path string true "channel name"
// @Security Bearer
// @Success 200 "Status OK"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/contacts/{contactID}/channels/{channel} [post]
func (h *EngineHandler) PostContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")
	channel := chi.URLParam(r, "channel")

	err := h.engine.RecordContact(contactID, channel)
	if err != nil {
		zap.L().Error("Record contact", zap.String("contact", contactID), zap.String("channel", channel), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBInsertFailed, err)
		return
	}

	httputil.OK(w, r)
}

// GetContactFatigue godoc
// @Summary Get contact fatigue state
// @Description Get the per-channel fatigue counters of one contact
// @Tags Contacts
// @Produce json
// @Param contactID path string true "contact ID"
// @Security Bearer
// @Success 200 {array} fatigue.Record "fatigue records"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/contacts/{contactID}/fatigue [get]
func GetContactFatigue(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	records, err := fatigue.R().GetByContact(contactID)
	if err != nil {
		zap.L().Error("Cannot get fatigue records", zap.String("contact", contactID), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}

	httputil.JSON(w, r, records)
}

// PostOutcome godoc
// @Summary Record a campaign outcome
// @Description Merge one observed campaign-result batch into the learning store
// @Tags Outcomes
// @Accept json
// @Produce json
// @Param outcome body learning.Outcome true "Outcome definition (json)"
// @Security Bearer
// @Success 200 "Status OK"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/outcomes [post]
func (h *EngineHandler) PostOutcome(w http.ResponseWriter, r *http.Request) {
	var outcome learning.Outcome
	err := json.NewDecoder(r.Body).Decode(&outcome)
	if err != nil {
		zap.L().Warn("Outcome json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}
	if !outcome.Category.IsValid() {
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, errors.New("invalid category: "+string(outcome.Category)))
		return
	}

	err = h.engine.RecordOutcome(outcome)
	if err != nil {
		zap.L().Error("Record outcome", zap.Any("outcome", outcome), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBInsertFailed, err)
		return
	}

	httputil.OK(w, r)
}

// GetOutcomes godoc
// @Summary Get learning statistics
// @Description Get all aggregated campaign performance statistics
// @Tags Outcomes
// @Produce json
// @Security Bearer
// @Success 200 {array} learning.Stats "list of stats"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/outcomes [get]
func GetOutcomes(w http.ResponseWriter, r *http.Request) {
	stats, err := learning.R().GetAll()
	if err != nil {
		zap.L().Error("Cannot get learning stats", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}

	httputil.JSON(w, r, stats)
}

// PostFatigueReset godoc
// @Summary Reset daily fatigue counters
// @Description Force the daily contact fatigue sweep outside its schedule
// @Tags Contacts
// @Produce json
// @Security Bearer
// @Success 200 "Status OK"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/maintenance/fatigue/reset [post]
func (h *EngineHandler) PostFatigueReset(w http.ResponseWriter, r *http.Request) {
	affected, err := h.engine.ResetDailyFatigue()
	if err != nil {
		zap.L().Error("Fatigue counter reset failed", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBUpdateFailed, err)
		return
	}

	httputil.JSON(w, r, map[string]interface{}{"records": affected})
}
