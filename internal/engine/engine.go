package engine

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/budget"
	"github.com/fieldreach/intelligence-api/internal/decision"
	"github.com/fieldreach/intelligence-api/internal/fatigue"
	"github.com/fieldreach/intelligence-api/internal/learning"
	"github.com/fieldreach/intelligence-api/internal/metrics"
	"github.com/fieldreach/intelligence-api/internal/trigger"
)

// Scoring constants. The weights and caps are fixed by design, not derived
// from data; the composite score is advisory, not a hard admission gate.
const (
	urgencyWeight   = 2.5
	urgencyCap      = 25.0
	relevanceWeight = 2.5
	relevanceCap    = 25.0

	budgetAvailableScore = 20.0
	budgetDepletedScore  = 5.0

	fatigueOKScore = 15.0

	historicalWeight  = 5.0
	historicalCap     = 15.0
	historicalDefault = 10.0

	goThreshold     = 70
	reviewThreshold = 50
)

// Engine scores inbound campaign events against registered triggers and
// produces GO / REVIEW / NO-GO decisions with an execution plan. It is
// stateless between calls and is constructed explicitly by the composition
// root with its collaborator repositories.
type Engine struct {
	triggers  trigger.Repository
	decisions decision.Repository
	budgets   budget.Repository
	fatigue   fatigue.Repository
	learning  learning.Repository

	decisionHooks []func(decision.Decision)
}

// New returns a new Engine wired to the given collaborator repositories
func New(triggers trigger.Repository, decisions decision.Repository, budgets budget.Repository,
	fatigueStore fatigue.Repository, learningStore learning.Repository) *Engine {
	return &Engine{
		triggers:  triggers,
		decisions: decisions,
		budgets:   budgets,
		fatigue:   fatigueStore,
		learning:  learningStore,
	}
}

// RegisterDecisionHook adds a callback invoked after every persisted
// decision. Hooks run synchronously on the processing path and must not
// block; they are meant for fan-out like operator notifications.
func (e *Engine) RegisterDecisionHook(hook func(decision.Decision)) {
	e.decisionHooks = append(e.decisionHooks, hook)
}

// ProcessEvent evaluates one event end to end: trigger lookup, composite
// scoring, tier classification, execution planning for approved events, and
// decision persistence. Unknown event types, missing fields and absent
// candidate scoping are all valid permissive states; only storage failures
// return an error.
func (e *Engine) ProcessEvent(event Event) (Result, error) {
	start := time.Now()

	if event.Type == "" {
		return Result{}, errors.New("missing event type")
	}

	in := event.withDefaults()
	now := time.Now()

	matched, err := e.matchTrigger(event, now)
	if err != nil {
		return Result{}, err
	}

	breakdown, err := e.score(event, in, matched)
	if err != nil {
		return Result{}, err
	}
	score := int(breakdown.Total())

	tier := classify(score)

	var channels []Channel
	var targets []decision.Target
	budgetEstimate := 0.0
	if tier == decision.TierGo {
		channels = selectChannels(in.urgency, event.Type)
		targets = []decision.Target{{Segment: in.targetSegment, Count: in.targetCount}}
		budgetEstimate = estimateBudget(channels, in.targetCount)
	}

	d := decision.Decision{
		CandidateID:    event.CandidateID,
		EventType:      event.Type,
		Payload:        event.Payload,
		Tier:           tier,
		Score:          score,
		ScoreBreakdown: breakdown,
		Channels:       channelNames(channels),
		Targets:        targets,
		BudgetEstimate: budgetEstimate,
	}
	if matched != nil {
		d.TriggerID = &matched.ID
	}
	d.ProcessingMs = time.Since(start).Milliseconds()

	id, err := e.decisions.Create(d)
	if err != nil {
		return Result{}, err
	}
	d.ID = id

	metrics.DecisionsTotal.WithLabelValues(string(tier)).Inc()
	metrics.ProcessingDuration.Observe(time.Since(start).Seconds())

	for _, hook := range e.decisionHooks {
		hook(d)
	}

	targetCount := 0
	if tier == decision.TierGo {
		targetCount = in.targetCount
	}

	return Result{
		DecisionID:      id,
		Decision:        string(tier),
		Score:           score,
		ScoreBreakdown:  breakdownMap(breakdown),
		Channels:        d.Channels,
		TargetCount:     targetCount,
		BudgetAllocated: budgetEstimate,
		ProcessingMs:    d.ProcessingMs,
	}, nil
}

// matchTrigger looks up an active trigger by exact event-type name and, when
// it matches, touches its firing statistics. A registered trigger still in
// cooldown or whose condition does not hold behaves like an unregistered
// event type.
func (e *Engine) matchTrigger(event Event, now time.Time) (*trigger.Trigger, error) {
	t, found, err := e.triggers.GetActiveByName(event.Type)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if t.InCooldown(now) {
		zap.L().Debug("Trigger in cooldown", zap.String("trigger", t.Name))
		return nil, nil
	}
	if !t.ConditionHolds(event.conditionParams()) {
		return nil, nil
	}
	if err := e.triggers.Touch(t.ID, now); err != nil {
		return nil, err
	}
	metrics.TriggerFiresTotal.WithLabelValues(t.Name).Inc()
	return &t, nil
}

// score computes the five capped sub-scores
func (e *Engine) score(event Event, in resolved, matched *trigger.Trigger) (decision.ScoreBreakdown, error) {
	breakdown := decision.ScoreBreakdown{
		Urgency:   clamp(in.urgency*urgencyWeight, 0, urgencyCap),
		Relevance: clamp(in.relevance*relevanceWeight, 0, relevanceCap),
	}

	budgetScore, err := e.budgetScore(event.CandidateID)
	if err != nil {
		return decision.ScoreBreakdown{}, err
	}
	breakdown.Budget = budgetScore

	fatigueScore, err := e.fatigueScore(in.targetContacts)
	if err != nil {
		return decision.ScoreBreakdown{}, err
	}
	breakdown.Fatigue = fatigueScore

	historicalScore, err := e.historicalScore(event.Type, matched)
	if err != nil {
		return decision.ScoreBreakdown{}, err
	}
	breakdown.Historical = historicalScore

	return breakdown, nil
}

// budgetScore grants the full contribution when the candidate has remaining
// budget somewhere across its channels, regardless of which channels end up
// selected. No candidate scoping means the check degrades to available.
func (e *Engine) budgetScore(candidateID string) (float64, error) {
	if candidateID == "" {
		return budgetAvailableScore, nil
	}
	remaining, err := e.budgets.SumRemaining(candidateID)
	if err != nil {
		return 0, err
	}
	if remaining > 0 {
		return budgetAvailableScore, nil
	}
	return budgetDepletedScore, nil
}

// fatigueScore checks how many of the named target contacts already reached
// the daily-contact ceiling on some channel. Fewer than half fatigued keeps
// the full contribution; an empty target list counts as not fatigued.
func (e *Engine) fatigueScore(targetContacts []string) (float64, error) {
	if len(targetContacts) == 0 {
		return fatigueOKScore, nil
	}
	fatigued, err := e.fatigue.CountFatigued(targetContacts, fatigue.DefaultDailyCeiling)
	if err != nil {
		return 0, err
	}
	if float64(fatigued) < float64(len(targetContacts))/2 {
		return fatigueOKScore, nil
	}
	return 0, nil
}

// historicalScore reads the average ROI recorded for the event category. The
// matched trigger's declared category wins; unregistered events fall back to
// the event-type prefix taxonomy.
func (e *Engine) historicalScore(eventType string, matched *trigger.Trigger) (float64, error) {
	category := trigger.CategoryFromEventType(eventType)
	if matched != nil {
		category = matched.Category
	}
	avgROI, found, err := e.learning.AvgROI(category)
	if err != nil {
		return 0, err
	}
	if !found {
		return historicalDefault, nil
	}
	return clamp(avgROI*historicalWeight, 0, historicalCap), nil
}

// RecordContact increments the fatigue counters for one (contact, channel)
// pair. Called by the execution layer once per actual outbound contact,
// never by ProcessEvent.
func (e *Engine) RecordContact(contactID string, channel string) error {
	return e.fatigue.RecordContact(contactID, channel)
}

// RecordOutcome merges one campaign-result batch into the learning store
func (e *Engine) RecordOutcome(outcome learning.Outcome) error {
	return e.learning.RecordOutcome(outcome)
}

// ResetDailyFatigue zeroes every fatigue record's "today" counter. Normally
// driven by the maintenance scheduler once per day.
func (e *Engine) ResetDailyFatigue() (int64, error) {
	return e.fatigue.ResetDaily()
}

// classify maps a composite score to its decision tier. Boundary scores
// belong to the higher tier.
func classify(score int) decision.Tier {
	switch {
	case score >= goThreshold:
		return decision.TierGo
	case score >= reviewThreshold:
		return decision.TierReview
	default:
		return decision.TierNoGo
	}
}

func clamp(value float64, low float64, high float64) float64 {
	return math.Max(low, math.Min(value, high))
}

func channelNames(channels []Channel) []string {
	names := make([]string, 0, len(channels))
	for _, c := range channels {
		names = append(names, string(c))
	}
	return names
}

func breakdownMap(b decision.ScoreBreakdown) map[string]float64 {
	return map[string]float64{
		"urgency":    b.Urgency,
		"relevance":  b.Relevance,
		"budget":     b.Budget,
		"fatigue":    b.Fatigue,
		"historical": b.Historical,
	}
}
