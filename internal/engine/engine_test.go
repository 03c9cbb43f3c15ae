package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/fieldreach/intelligence-api/internal/budget"
	"github.com/fieldreach/intelligence-api/internal/decision"
	"github.com/fieldreach/intelligence-api/internal/fatigue"
	"github.com/fieldreach/intelligence-api/internal/learning"
	"github.com/fieldreach/intelligence-api/internal/trigger"
)

type triggerRepoStub struct {
	triggers   map[string]trigger.Trigger
	touchCount map[int64]int
}

func newTriggerRepoStub(triggers ...trigger.Trigger) *triggerRepoStub {
	byName := make(map[string]trigger.Trigger)
	for _, t := range triggers {
		byName[t.Name] = t
	}
	return &triggerRepoStub{triggers: byName, touchCount: make(map[int64]int)}
}

func (s *triggerRepoStub) Create(t trigger.Trigger) (int64, error) { return t.ID, nil }
func (s *triggerRepoStub) Get(id int64) (trigger.Trigger, bool, error) {
	for _, t := range s.triggers {
		if t.ID == id {
			return t, true, nil
		}
	}
	return trigger.Trigger{}, false, nil
}
func (s *triggerRepoStub) GetActiveByName(name string) (trigger.Trigger, bool, error) {
	t, ok := s.triggers[name]
	if !ok || !t.Enabled {
		return trigger.Trigger{}, false, nil
	}
	return t, true, nil
}
func (s *triggerRepoStub) Update(t trigger.Trigger) error              { return nil }
func (s *triggerRepoStub) SetEnabled(id int64, enabled bool) error     { return nil }
func (s *triggerRepoStub) Touch(id int64, firedAt time.Time) error     { s.touchCount[id]++; return nil }
func (s *triggerRepoStub) GetAll() ([]trigger.Trigger, error)          { return nil, nil }
func (s *triggerRepoStub) GetAllEnabled() ([]trigger.Trigger, error)   { return nil, nil }

type decisionRepoStub struct {
	created []decision.Decision
}

func (s *decisionRepoStub) Create(d decision.Decision) (string, error) {
	id := fmt.Sprintf("decision-%d", len(s.created)+1)
	d.ID = id
	s.created = append(s.created, d)
	return id, nil
}
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

type budgetRepoStub struct {
	remaining map[string]float64
}

func (s *budgetRepoStub) Upsert(record budget.Record) error { return nil }
func (s *budgetRepoStub) Get(candidateID string, channel string) (budget.Record, bool, error) {
	return budget.Record{}, false, nil
}
func (s *budgetRepoStub) GetAllForCandidate(candidateID string) ([]budget.Record, error) {
	return nil, nil
}
func (s *budgetRepoStub) SumRemaining(candidateID string) (float64, error) {
	return s.remaining[candidateID], nil
}
func (s *budgetRepoStub) RecordSpend(candidateID string, channel string, amount float64) error {
	return nil
}
func (s *budgetRepoStub) ResetDaily() (int64, error)   { return 0, nil }
func (s *budgetRepoStub) ResetWeekly() (int64, error)  { return 0, nil }
func (s *budgetRepoStub) ResetMonthly() (int64, error) { return 0, nil }

type fatigueRepoStub struct {
	fatigued map[string]bool
}

func (s *fatigueRepoStub) RecordContact(contactID string, channel string) error { return nil }
func (s *fatigueRepoStub) CountFatigued(contactIDs []string, dailyCeiling int) (int, error) {
	count := 0
	for _, id := range contactIDs {
		if s.fatigued[id] {
			count++
		}
	}
	return count, nil
}
func (s *fatigueRepoStub) GetByContact(contactID string) ([]fatigue.Record, error) { return nil, nil }
func (s *fatigueRepoStub) ResetDaily() (int64, error)                              { return 0, nil }
func (s *fatigueRepoStub) ResetWeekly() (int64, error)                             { return 0, nil }
func (s *fatigueRepoStub) ResetMonthly() (int64, error)                            { return 0, nil }

type learningRepoStub struct {
	avgROI map[trigger.Category]float64
}

func (s *learningRepoStub) RecordOutcome(outcome learning.Outcome) error { return nil }
func (s *learningRepoStub) AvgROI(category trigger.Category) (float64, bool, error) {
	roi, ok := s.avgROI[category]
	return roi, ok, nil
}
func (s *learningRepoStub) Get(category trigger.Category, channel string, segment string) (learning.Stats, bool, error) {
	return learning.Stats{}, false, nil
}
func (s *learningRepoStub) GetAll() ([]learning.Stats, error) { return nil, nil }

func newTestEngine(triggers *triggerRepoStub, decisions *decisionRepoStub, budgets *budgetRepoStub,
	fatigueStore *fatigueRepoStub, learningStore *learningRepoStub) *Engine {
	if triggers == nil {
		triggers = newTriggerRepoStub()
	}
	if decisions == nil {
		decisions = &decisionRepoStub{}
	}
	if budgets == nil {
		budgets = &budgetRepoStub{remaining: map[string]float64{}}
	}
	if fatigueStore == nil {
		fatigueStore = &fatigueRepoStub{fatigued: map[string]bool{}}
	}
	if learningStore == nil {
		learningStore = &learningRepoStub{avgROI: map[trigger.Category]float64{}}
	}
	return New(triggers, decisions, budgets, fatigueStore, learningStore)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestProcessEventCrisisScenario(t *testing.T) {
	decisions := &decisionRepoStub{}
	e := newTestEngine(nil, decisions, nil, nil, nil)

	result, err := e.ProcessEvent(Event{
		Type:      "news.crisis_detected",
		Urgency:   floatPtr(9),
		Relevance: floatPtr(8),
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Score != 87 {
		t.Errorf("score: got %v want 87", result.Score)
	}
	if result.Decision != "go" {
		t.Errorf("decision: got %v want go", result.Decision)
	}
	expected := map[string]float64{"urgency": 22.5, "relevance": 20, "budget": 20, "fatigue": 15, "historical": 10}
	for component, want := range expected {
		if got := result.ScoreBreakdown[component]; got != want {
			t.Errorf("breakdown %s: got %v want %v", component, got, want)
		}
	}
	if len(decisions.created) != 1 {
		t.Fatalf("expected 1 persisted decision, got %d", len(decisions.created))
	}

	want := map[string]bool{"sms": true, "email": true, "social": true, "phone": true}
	got := make(map[string]bool)
	for _, channel := range result.Channels {
		got[channel] = true
	}
	for channel := range want {
		if !got[channel] {
			t.Errorf("expected channel %s in %v", channel, result.Channels)
		}
	}
}

func TestProcessEventScoreEqualsBreakdownSum(t *testing.T) {
	e := newTestEngine(nil, nil, nil, nil, nil)

	for _, urgency := range []float64{0, 3, 5.5, 9, 10, 12} {
		for _, relevance := range []float64{0, 4.3, 7, 10} {
			result, err := e.ProcessEvent(Event{Type: "engagement.event", Urgency: floatPtr(urgency), Relevance: floatPtr(relevance)})
			if err != nil {
				t.Fatal(err)
			}
			if result.Score < 0 || result.Score > 100 {
				t.Errorf("score out of range: %v", result.Score)
			}
			sum := 0.0
			for _, component := range result.ScoreBreakdown {
				sum += component
			}
			if result.Score != int(sum) {
				t.Errorf("score %v does not match truncated breakdown sum %v", result.Score, sum)
			}
		}
	}
}

func TestProcessEventTierBoundaries(t *testing.T) {
	tests := []struct {
		name        string
		urgency     float64
		relevance   float64
		candidateID string
		wantScore   int
		wantTier    string
	}{
		// urgency 25 + relevance 9 + budget 20 + fatigue 15 + historical 0 = 69
		{"review upper boundary", 10, 3.6, "", 69, "review"},
		// urgency 25 + relevance 10 + budget 20 + fatigue 15 + historical 0 = 70
		{"go lower boundary", 10, 4, "", 70, "go"},
		// 25 + 4 + 5 (candidate without budget) + 15 + 0 = 49
		{"no_go upper boundary", 10, 1.6, "broke-candidate", 49, "no_go"},
		// 25 + 5 + 5 + 15 + 0 = 50
		{"review lower boundary", 10, 2, "broke-candidate", 50, "review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// zero recorded ROI for the category pins historical to 0
			learningStore := &learningRepoStub{avgROI: map[trigger.Category]float64{trigger.CategoryGeneral: 0}}
			e := newTestEngine(nil, nil, nil, nil, learningStore)

			result, err := e.ProcessEvent(Event{Type: "unregistered_event", Urgency: floatPtr(tt.urgency), Relevance: floatPtr(tt.relevance), CandidateID: tt.candidateID})
			if err != nil {
				t.Fatal(err)
			}
			if result.Score != tt.wantScore {
				t.Errorf("score: got %v want %v", result.Score, tt.wantScore)
			}
			if result.Decision != tt.wantTier {
				t.Errorf("decision: got %v want %v", result.Decision, tt.wantTier)
			}
		})
	}
}

func TestProcessEventDefaults(t *testing.T) {
	decisions := &decisionRepoStub{}
	e := newTestEngine(nil, decisions, nil, nil, nil)

	// urgency 12.5 + relevance 17.5 + budget 20 + fatigue 15 + historical 10 = 75
	result, err := e.ProcessEvent(Event{Type: "engagement.volunteer_signup"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Score != 75 {
		t.Errorf("score with defaults: got %v want 75", result.Score)
	}
	if result.TargetCount != DefaultTargetCount {
		t.Errorf("target count: got %v want %v", result.TargetCount, DefaultTargetCount)
	}
	targets := decisions.created[0].Targets
	if len(targets) != 1 || targets[0].Segment != DefaultTargetSegment || targets[0].Count != DefaultTargetCount {
		t.Errorf("unexpected targets: %+v", targets)
	}
}

func TestProcessEventMissingType(t *testing.T) {
	e := newTestEngine(nil, nil, nil, nil, nil)
	if _, err := e.ProcessEvent(Event{}); err == nil {
		t.Error("expected error for missing event type")
	}
}

func TestProcessEventNoGoHasNoExecutionPlan(t *testing.T) {
	decisions := &decisionRepoStub{}
	e := newTestEngine(nil, decisions, nil, nil, nil)

	// 0 + 0 + 20 + 15 + 10 = 45
	result, err := e.ProcessEvent(Event{Type: "calendar.minor", Urgency: floatPtr(0), Relevance: floatPtr(0)})
	if err != nil {
		t.Fatal(err)
	}
	if result.Decision != "no_go" {
		t.Fatalf("decision: got %v want no_go", result.Decision)
	}
	if len(result.Channels) != 0 {
		t.Errorf("expected no channels, got %v", result.Channels)
	}
	if result.TargetCount != 0 {
		t.Errorf("expected target count 0, got %v", result.TargetCount)
	}
	if result.BudgetAllocated != 0 {
		t.Errorf("expected budget 0, got %v", result.BudgetAllocated)
	}
	if len(decisions.created[0].Targets) != 0 {
		t.Errorf("expected no persisted targets, got %v", decisions.created[0].Targets)
	}
}

func TestProcessEventBudgetDepleted(t *testing.T) {
	budgets := &budgetRepoStub{remaining: map[string]float64{"candidate-7": 0}}
	e := newTestEngine(nil, nil, budgets, nil, nil)

	result, err := e.ProcessEvent(Event{Type: "donation.received", CandidateID: "candidate-7"})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.ScoreBreakdown["budget"]; got != 5 {
		t.Errorf("budget breakdown: got %v want 5", got)
	}

	budgets.remaining["candidate-7"] = 250
	result, err = e.ProcessEvent(Event{Type: "donation.received", CandidateID: "candidate-7"})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.ScoreBreakdown["budget"]; got != 20 {
		t.Errorf("budget breakdown: got %v want 20", got)
	}
}

func TestProcessEventFatigueGate(t *testing.T) {
	fatigueStore := &fatigueRepoStub{fatigued: map[string]bool{"c1": true, "c2": true, "c3": false}}
	e := newTestEngine(nil, nil, nil, fatigueStore, nil)

	// 2 of 3 fatigued, at least half
	result, err := e.ProcessEvent(Event{Type: "gotv.push", TargetContacts: []string{"c1", "c2", "c3"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.ScoreBreakdown["fatigue"]; got != 0 {
		t.Errorf("fatigue breakdown: got %v want 0", got)
	}

	// 1 of 3 fatigued, fewer than half
	result, err = e.ProcessEvent(Event{Type: "gotv.push", TargetContacts: []string{"c1", "c3", "c4"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.ScoreBreakdown["fatigue"]; got != 15 {
		t.Errorf("fatigue breakdown: got %v want 15", got)
	}
}

func TestProcessEventHistoricalClamped(t *testing.T) {
	learningStore := &learningRepoStub{avgROI: map[trigger.Category]float64{
		trigger.CategoryDonation: 12,
		trigger.CategoryNews:     -4,
	}}
	e := newTestEngine(nil, nil, nil, nil, learningStore)

	result, err := e.ProcessEvent(Event{Type: "donation.received"})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.ScoreBreakdown["historical"]; got != 15 {
		t.Errorf("historical breakdown capped: got %v want 15", got)
	}

	result, err = e.ProcessEvent(Event{Type: "news.mention"})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.ScoreBreakdown["historical"]; got != 0 {
		t.Errorf("historical breakdown negative ROI: got %v want 0", got)
	}
}

func TestProcessEventTouchesMatchedTrigger(t *testing.T) {
	triggers := newTriggerRepoStub(trigger.Trigger{
		ID: 42, Name: "donation.received", Category: trigger.CategoryDonation, Priority: 80, Enabled: true,
	})
	decisions := &decisionRepoStub{}
	e := newTestEngine(triggers, decisions, nil, nil, nil)

	if _, err := e.ProcessEvent(Event{Type: "donation.received"}); err != nil {
		t.Fatal(err)
	}
	if triggers.touchCount[42] != 1 {
		t.Errorf("trigger touch count: got %v want 1", triggers.touchCount[42])
	}
	if decisions.created[0].TriggerID == nil || *decisions.created[0].TriggerID != 42 {
		t.Errorf("decision trigger id: got %v want 42", decisions.created[0].TriggerID)
	}
}

func TestProcessEventUnregisteredTypeIsNotAnError(t *testing.T) {
	decisions := &decisionRepoStub{}
	e := newTestEngine(nil, decisions, nil, nil, nil)

	if _, err := e.ProcessEvent(Event{Type: "never.registered"}); err != nil {
		t.Fatal(err)
	}
	if decisions.created[0].TriggerID != nil {
		t.Errorf("expected nil trigger reference, got %v", *decisions.created[0].TriggerID)
	}
}

func TestProcessEventTriggerCooldown(t *testing.T) {
	justFired := time.Now().Add(-30 * time.Second)
	triggers := newTriggerRepoStub(trigger.Trigger{
		ID: 7, Name: "news.mention", Category: trigger.CategoryNews, Enabled: true,
		CooldownSeconds: 300, LastFiredAt: &justFired,
	})
	decisions := &decisionRepoStub{}
	e := newTestEngine(triggers, decisions, nil, nil, nil)

	if _, err := e.ProcessEvent(Event{Type: "news.mention"}); err != nil {
		t.Fatal(err)
	}
	if triggers.touchCount[7] != 0 {
		t.Errorf("trigger in cooldown was touched %d times", triggers.touchCount[7])
	}
	if decisions.created[0].TriggerID != nil {
		t.Error("trigger in cooldown should behave like an unregistered event")
	}
}

func TestProcessEventTriggerCondition(t *testing.T) {
	triggers := newTriggerRepoStub(trigger.Trigger{
		ID: 9, Name: "donation.received", Category: trigger.CategoryDonation, Enabled: true,
		Condition: "amount >= 1000",
	})
	e := newTestEngine(triggers, nil, nil, nil, nil)

	if _, err := e.ProcessEvent(Event{Type: "donation.received", Payload: map[string]interface{}{"amount": 50.0}}); err != nil {
		t.Fatal(err)
	}
	if triggers.touchCount[9] != 0 {
		t.Error("condition below threshold should not fire the trigger")
	}

	if _, err := e.ProcessEvent(Event{Type: "donation.received", Payload: map[string]interface{}{"amount": 2500.0}}); err != nil {
		t.Fatal(err)
	}
	if triggers.touchCount[9] != 1 {
		t.Errorf("trigger touch count: got %v want 1", triggers.touchCount[9])
	}
}

func TestProcessEventDecisionHook(t *testing.T) {
	e := newTestEngine(nil, nil, nil, nil, nil)

	var notified []decision.Decision
	e.RegisterDecisionHook(func(d decision.Decision) {
		notified = append(notified, d)
	})

	if _, err := e.ProcessEvent(Event{Type: "news.mention"}); err != nil {
		t.Fatal(err)
	}
	if len(notified) != 1 {
		t.Fatalf("expected 1 hook invocation, got %d", len(notified))
	}
	if notified[0].ID == "" {
		t.Error("hook should receive the persisted decision id")
	}
}
