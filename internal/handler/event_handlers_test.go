package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/fieldreach/intelligence-api/internal/budget"
	"github.com/fieldreach/intelligence-api/internal/decision"
	"github.com/fieldreach/intelligence-api/internal/engine"
	"github.com/fieldreach/intelligence-api/internal/fatigue"
	"github.com/fieldreach/intelligence-api/internal/learning"
	"github.com/fieldreach/intelligence-api/internal/tests"
	"github.com/fieldreach/intelligence-api/internal/trigger"
)

type triggerRepoStub struct{}

func (s *triggerRepoStub) Create(t trigger.Trigger) (int64, error) { return 1, nil }
func (s *triggerRepoStub) Get(id int64) (trigger.Trigger, bool, error) {
	return trigger.Trigger{}, false, nil
}
func (s *triggerRepoStub) GetActiveByName(name string) (trigger.Trigger, bool, error) {
	return trigger.Trigger{}, false, nil
}
func (s *triggerRepoStub) Update(t trigger.Trigger) error                 { return nil }
func (s *triggerRepoStub) SetEnabled(id int64, enabled bool) error        { return nil }
func (s *triggerRepoStub) Touch(id int64, firedAt time.Time) error        { return nil }
func (s *triggerRepoStub) GetAll() ([]trigger.Trigger, error)             { return nil, nil }
func (s *triggerRepoStub) GetAllEnabled() ([]trigger.Trigger, error)      { return nil, nil }

type decisionRepoStub struct{}

func (s *decisionRepoStub) Create(d decision.Decision) (string, error) { return "decision-1", nil }
func (s *decisionRepoStub) Get(id string) (decision.Decision, bool, error) {
	return decision.Decision{}, false, nil
}
func (s *decisionRepoStub) GetAllFromTo(from time.Time, to time.Time) ([]decision.Decision, error) {
	return nil, nil
}
func (s *decisionRepoStub) GetLatestForCandidate(candidateID string, limit int) ([]decision.Decision, error) {
	return nil, nil
}
func (s *decisionRepoStub) MarkExecuted(id string, executedAt time.Time) error { return nil }

type budgetRepoStub struct{}

func (s *budgetRepoStub) Upsert(record budget.Record) error { return nil }
func (s *budgetRepoStub) Get(candidateID string, channel string) (budget.Record, bool, error) {
	return budget.Record{}, false, nil
}
func (s *budgetRepoStub) GetAllForCandidate(candidateID string) ([]budget.Record, error) {
	return nil, nil
}
func (s *budgetRepoStub) SumRemaining(candidateID string) (float64, error) { return 100, nil }
func (s *budgetRepoStub) RecordSpend(candidateID string, channel string, amount float64) error {
	return nil
}
func (s *budgetRepoStub) ResetDaily() (int64, error)   { return 0, nil }
func (s *budgetRepoStub) ResetWeekly() (int64, error)  { return 0, nil }
func (s *budgetRepoStub) ResetMonthly() (int64, error) { return 0, nil }

type fatigueRepoStub struct {
	contacts map[string]int
}

func (s *fatigueRepoStub) RecordContact(contactID string, channel string) error {
	if s.contacts == nil {
		s.contacts = make(map[string]int)
	}
	s.contacts[contactID+"/"+channel]++
	return nil
}
func (s *fatigueRepoStub) CountFatigued(contactIDs []string, dailyCeiling int) (int, error) {
	return 0, nil
}
func (s *fatigueRepoStub) GetByContact(contactID string) ([]fatigue.Record, error) { return nil, nil }
func (s *fatigueRepoStub) ResetDaily() (int64, error)                              { return 0, nil }
func (s *fatigueRepoStub) ResetWeekly() (int64, error)                             { return 0, nil }
func (s *fatigueRepoStub) ResetMonthly() (int64, error)                            { return 0, nil }

type learningRepoStub struct {
	outcomes []learning.Outcome
}

func (s *learningRepoStub) RecordOutcome(outcome learning.Outcome) error {
	s.outcomes = append(s.outcomes, outcome)
	return nil
}
func (s *learningRepoStub) AvgROI(category trigger.Category) (float64, bool, error) {
	return 0, false, nil
}
func (s *learningRepoStub) Get(category trigger.Category, channel string, segment string) (learning.Stats, bool, error) {
	return learning.Stats{}, false, nil
}
func (s *learningRepoStub) GetAll() ([]learning.Stats, error) { return nil, nil }

func newStubEngineHandler() (*EngineHandler, *fatigueRepoStub, *learningRepoStub) {
	fatigueStub := &fatigueRepoStub{}
	learningStub := &learningRepoStub{}
	eng := engine.New(&triggerRepoStub{}, &decisionRepoStub{}, &budgetRepoStub{}, fatigueStub, learningStub)
	return NewEngineHandler(eng), fatigueStub, learningStub
}

func TestPostEvent(t *testing.T) {
	h, _, _ := newStubEngineHandler()

	body := `{"type": "donation.received", "urgency": 9, "relevance": 8, "candidateId": "cand-1"}`
	rr := tests.BuildTestHandler(t, "POST", "/events", body, "/events", h.PostEvent)
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var result engine.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.DecisionID != "decision-1" {
		t.Errorf("expected decision id decision-1, got %s", result.DecisionID)
	}
	// 22.5 + 20 + 20 + 15 + 10
	if result.Score != 87 {
		t.Errorf("expected score 87, got %d", result.Score)
	}
	if result.Decision != "go" {
		t.Errorf("expected decision go, got %s", result.Decision)
	}
	if len(result.Channels) == 0 {
		t.Errorf("expected a channel plan on a go decision")
	}
}

func TestPostEventMissingType(t *testing.T) {
	h, _, _ := newStubEngineHandler()

	rr := tests.BuildTestHandler(t, "POST", "/events", `{"urgency": 9}`, "/events", h.PostEvent)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
	}
}

func TestPostEventMalformedBody(t *testing.T) {
	h, _, _ := newStubEngineHandler()

	rr := tests.BuildTestHandler(t, "POST", "/events", `not json`, "/events", h.PostEvent)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
	}
}

func TestPostContact(t *testing.T) {
	h, fatigueStub, _ := newStubEngineHandler()

	rr := tests.BuildTestHandler(t, "POST", "/contacts/contact-1/channels/sms", "",
		"/contacts/{contactID}/channels/{channel}", h.PostContact)
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if fatigueStub.contacts["contact-1/sms"] != 1 {
		t.Errorf("expected one recorded contact, got %d", fatigueStub.contacts["contact-1/sms"])
	}
}

func TestPostOutcome(t *testing.T) {
	h, _, learningStub := newStubEngineHandler()

	body := `{"category": "donation", "channel": "email", "segment": "small_donors", "sends": 1000, "opens": 250, "clicks": 40, "conversions": 12, "revenue": 600}`
	rr := tests.BuildTestHandler(t, "POST", "/outcomes", body, "/outcomes", h.PostOutcome)
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if len(learningStub.outcomes) != 1 {
		t.Fatalf("expected one recorded outcome, got %d", len(learningStub.outcomes))
	}
	if learningStub.outcomes[0].Category != trigger.CategoryDonation {
		t.Errorf("expected category donation, got %s", learningStub.outcomes[0].Category)
	}
}

func TestPostOutcomeInvalidCategory(t *testing.T) {
	h, _, _ := newStubEngineHandler()

	body := `{"category": "unknown_thing", "channel": "email", "segment": "all", "sends": 10}`
	rr := tests.BuildTestHandler(t, "POST", "/outcomes", body, "/outcomes", h.PostOutcome)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
	}
}
