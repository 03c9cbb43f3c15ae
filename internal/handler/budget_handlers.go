package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/budget"
	"github.com/fieldreach/intelligence-api/pkg/utils/httputil"
)

// GetBudgets godoc
// @Summary Get candidate budgets
// @Description Get the per-channel budget records of one candidate
// @Tags Budgets
// @Produce json
// @Param candidateID path string true "candidate ID"
// @Security Bearer
// @Success 200 {array} budget.Record "list of budget records"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/budgets/{candidateID} [get]
func GetBudgets(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateID")

	records, err := budget.R().GetAllForCandidate(candidateID)
	if err != nil {
		zap.L().Error("Cannot get budgets", zap.String("candidate", candidateID), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBSelectFailed, err)
		return
	}

	httputil.JSON(w, r, records)
}

// PutBudget godoc
// @Summary Create or replace a budget record
// @Description Set the spend ceilings of one (candidate, channel) pair
// @Tags Budgets
// @Accept json
// @Produce json
// @Param candidateID path string true "candidate ID"
// @Param budget body budget.Record true "Budget record (json)"
// @Security Bearer
// @Success 200 {object} budget.Record "budget record"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/budgets/{candidateID} [put]
func PutBudget(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateID")

	var record budget.Record
	err := json.NewDecoder(r.Body).Decode(&record)
	if err != nil {
		zap.L().Warn("Budget json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}
	record.CandidateID = candidateID
	if record.Channel == "" {
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, errors.New("missing channel"))
		return
	}

	err = budget.R().Upsert(record)
	if err != nil {
		zap.L().Error("Upsert budget", zap.String("candidate", candidateID), zap.String("channel", record.Channel), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBInsertFailed, err)
		return
	}

	httputil.JSON(w, r, record)
}

// spendRequest is the body of a budget spend declaration
type spendRequest struct {
	Channel string  `json:"channel"`
	Amount  float64 `json:"amount"`
}

// PostSpend godoc
// @Summary Record budget spend
// @Description Add one spend amount to the running totals of a (candidate, channel) pair
// @Tags Budgets
// @Accept json
// @Produce json
// @Param candidateID path string true "candidate ID"
// @Param spend body spendRequest true "Spend declaration (json)"
// @Security Bearer
// @Success 200 "Status OK"
// @Failure 400 "Status Bad Request"
// @Failure 500 "Status Internal Server Error"
// @Router /engine/budgets/{candidateID}/spend [post]
func PostSpend(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateID")

	var spend spendRequest
	err := json.NewDecoder(r.Body).Decode(&spend)
	if err != nil {
		zap.L().Warn("Spend json decode", zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDecodeJSONBody, err)
		return
	}
	if spend.Channel == "" {
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, errors.New("missing channel"))
		return
	}
	if spend.Amount <= 0 {
		httputil.Error(w, r, httputil.ErrAPIResourceInvalid, errors.New("amount must be positive"))
		return
	}

	err = budget.R().RecordSpend(candidateID, spend.Channel, spend.Amount)
	if err != nil {
		zap.L().Error("Record spend", zap.String("candidate", candidateID), zap.String("channel", spend.Channel), zap.Error(err))
		httputil.Error(w, r, httputil.ErrAPIDBUpdateFailed, err)
		return
	}

	httputil.OK(w, r)
}
