package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/decision"
	"github.com/fieldreach/intelligence-api/pkg/utils/httputil"
)

// GetDecisions godoc
// @Summary Get decisions
// @Description Get decisions over a time range, or the latest decisions of one candidate
// @Tags Decisions
// @Produce json
// @Param from query string false "start of the time range"
// @Param to query string false "end of the time range"
// @Param candidateId query string false "candidate ID"
// @Param limit query int false "maximum number of decisions returned (candidate mode only)"
// @Security Bearer
// @Success 200 {array} decision.Decision "list of decisions"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/decisions [get]
func GetDecisions(w http.ResponseWriter, r *http.Request) {
	candidateID := r.URL.Query().Get("candidateId")
	if candidateID != "" {
		limit, err := QueryParamToOptionalInt(r, "limit", 50)
		if err != nil {
			zap.L().Warn("Parse input limit", zap.Error(err))
			httputil.Error(w, r, httputil.ErrAPIParsingInteger, err)
			return
		}

		decisions, err := decision.R().GetLatestForCandidate(candidateID, limit)
		if err != nil {
			zap.L().Error("Cannot get decisions", zap.String("candidate", candidateID), zap.Error(err))
			httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
			return
		}
		httputil.JSON(w, r, decisions)
		return
	}

	now := time.Now().UTC()
	from, err := QueryParamToOptionalTime(r, "from", now.Add(-24*time.Hour))
	if err != nil {
		zap.L().Warn("Parse input from", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIParsingDateTime, err)
		return
	}
	to, err := QueryParamToOptionalTime(r, "to", now)
	if err != nil {
		zap.L().Warn("Parse input to", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIParsingDateTime, err)
		return
	}

	decisions, err := decision.R().GetAllFromTo(from, to)
	if err != nil {
		zap.L().Error("Cannot get decisions", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}

	httputil.JSON(w, r, decisions)
}

// GetDecision godoc
// @Summary Get a decision
// @Description Get a specific decision by it's ID
// @Tags Decisions
// @Produce json
// @Param id path string true "decision ID"
// @Security Bearer
// @Success 200 {object} decision.Decision "decision"
// @Failure 404 "Status Not Found"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/decisions/{id} [get]
func GetDecision(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, found, err := decision.R().Get(id)
	if err != nil {
		zap.L().Error("Get decision from repository", zap.String("id", id), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}
	if !found {
		zap.L().Warn("Decision not found", zap.String("id", id))
		httputil.Error(w, r, httputil.ErrAPIDBResourceNotFound, err)
		return
	}

	httputil.JSON(w, r, d)
}

// PostDecisionExecuted godoc
// @Summary Mark a decision as executed
// @Description Flag a decision as executed by the channel-execution layer
// @Tags Decisions
// @Produce json
// @Param id path string true "decision ID"
// @Security Bearer
// @Success 200 "Status OK"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/decisions/{id}/executed [post]
func PostDecisionExecuted(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := decision.R().MarkExecuted(id, time.Now().UTC())
	if err != nil {
		zap.L().Error("Mark decision executed", zap.String("id", id), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBUpdateFailed, err)
		return
	}

	httputil.OK(w, r)
}
