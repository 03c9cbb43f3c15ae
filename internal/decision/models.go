package decision

import (
	"time"
)

// Tier is the engine output classification for a processed event
type Tier string

const (
	// TierGo approves the event for immediate execution planning
	TierGo Tier = "go"
	// TierReview parks the event for human review
	TierReview Tier = "review"
	// TierNoGo rejects the event
	TierNoGo Tier = "no_go"
)

// ScoreBreakdown holds the five raw sub-scores the composite score is built from
type ScoreBreakdown struct {
	Urgency    float64 `json:"urgency"`
	Relevance  float64 `json:"relevance"`
	Budget     float64 `json:"budget"`
	Fatigue    float64 `json:"fatigue"`
	Historical float64 `json:"historical"`
}

// Total returns the raw (untruncated) sum of the five sub-scores
func (b ScoreBreakdown) Total() float64 {
	return b.Urgency + b.Relevance + b.Budget + b.Fatigue + b.Historical
}

// Target describes an audience slice an approved decision should reach.
// Resolution into individual contacts is owned by the audience service.
type Target struct {
	Segment string `json:"segment"`
	Count   int    `json:"count"`
}

// Decision is the engine output record for one processed event.
// It is immutable after creation; the execution-tracking fields (Executed,
// ExecutedAt) are mutated later by the channel-execution layer, never by the
// scoring path.
type Decision struct {
	ID             string                 `json:"id"`
	TriggerID      *int64                 `json:"triggerId,omitempty"`
	CandidateID    string                 `json:"candidateId,omitempty"`
	EventType      string                 `json:"eventType"`
	Payload        map[string]interface{} `json:"payload,omitempty"`
	Tier           Tier                   `json:"tier"`
	Score          int                    `json:"score"`
	ScoreBreakdown ScoreBreakdown         `json:"scoreBreakdown"`
	Channels       []string               `json:"channels"`
	Targets        []Target               `json:"targets"`
	BudgetEstimate float64                `json:"budgetEstimate"`
	ProcessingMs   int64                  `json:"processingMs"`
	Executed       bool                   `json:"executed"`
	ExecutedAt     *time.Time             `json:"executedAt,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// TargetCount sums the audience size over every target descriptor
func (d Decision) TargetCount() int {
	total := 0
	for _, target := range d.Targets {
		total += target.Count
	}
	return total
}
