package engine

// Channel is an outreach medium the engine can plan an execution on
type Channel string

const (
	ChannelEmail      Channel = "email"
	ChannelSMS        Channel = "sms"
	ChannelPhone      Channel = "phone"
	ChannelDirectMail Channel = "direct_mail"
	ChannelRVM        Channel = "rvm"
	ChannelSocial     Channel = "social"
	ChannelTV         Channel = "tv"
	ChannelRadio      Channel = "radio"
	ChannelVideo      Channel = "video"
)

// channelCosts is the per-contact cost table used for budget estimates
var channelCosts = map[Channel]float64{
	ChannelEmail:      0.01,
	ChannelSMS:        0.02,
	ChannelPhone:      0.15,
	ChannelDirectMail: 0.75,
	ChannelRVM:        0.03,
	ChannelSocial:     0.05,
	ChannelTV:         500,
	ChannelRadio:      100,
	ChannelVideo:      0.25,
}

// defaultChannelCost is applied to channels missing from the cost table
const defaultChannelCost = 0.05

// Default values applied to missing event fields. Missing or out-of-band
// inputs never fail a call; permissiveness keeps the hot path non-blocking.
const (
	DefaultUrgency       = 5.0
	DefaultRelevance     = 7.0
	DefaultTargetSegment = "all"
	DefaultTargetCount   = 100
)

// Event is one inbound signal to evaluate. The optional fields use pointers
// so that an absent value and an explicit zero can be told apart; defaults
// are applied in ProcessEvent.
type Event struct {
	// Type is the event-type key, e.g. "donation.received". Mandatory.
	Type string `json:"type"`
	// Urgency in [0,10], defaults to 5
	Urgency *float64 `json:"urgency,omitempty"`
	// Relevance in [0,10], defaults to 7
	Relevance *float64 `json:"relevance,omitempty"`
	// TargetSegment defaults to "all"
	TargetSegment string `json:"targetSegment,omitempty"`
	// TargetContacts scopes the fatigue check; empty means not fatigued
	TargetContacts []string `json:"targetContacts,omitempty"`
	// TargetCount defaults to 100
	TargetCount *int `json:"targetCount,omitempty"`
	// CandidateID scopes budget and fatigue lookups; empty degrades both
	// checks to permissive defaults
	CandidateID string `json:"candidateId,omitempty"`
	// Payload carries any additional free-form attributes; it is snapshotted
	// on the decision record and exposed to trigger condition expressions
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// resolved is an Event with every default applied
type resolved struct {
	urgency        float64
	relevance      float64
	targetSegment  string
	targetContacts []string
	targetCount    int
}

func (e Event) withDefaults() resolved {
	in := resolved{
		urgency:        DefaultUrgency,
		relevance:      DefaultRelevance,
		targetSegment:  DefaultTargetSegment,
		targetContacts: e.TargetContacts,
		targetCount:    DefaultTargetCount,
	}
	if e.Urgency != nil {
		in.urgency = *e.Urgency
	}
	if e.Relevance != nil {
		in.relevance = *e.Relevance
	}
	if e.TargetSegment != "" {
		in.targetSegment = e.TargetSegment
	}
	if e.TargetCount != nil {
		in.targetCount = *e.TargetCount
	}
	return in
}

// conditionParams exposes the resolved event attributes, merged over the raw
// payload, to trigger condition expressions
func (e Event) conditionParams() map[string]interface{} {
	in := e.withDefaults()
	params := make(map[string]interface{}, len(e.Payload)+5)
	for k, v := range e.Payload {
		params[k] = v
	}
	params["event_type"] = e.Type
	params["urgency"] = in.urgency
	params["relevance"] = in.relevance
	params["target_segment"] = in.targetSegment
	params["target_count"] = in.targetCount
	return params
}

// Result is the ProcessEvent return shape handed to callers
type Result struct {
	DecisionID     string                 `json:"decision_id"`
	Decision       string                 `json:"decision"`
	Score          int                    `json:"score"`
	ScoreBreakdown map[string]float64     `json:"score_breakdown"`
	Channels       []string               `json:"channels"`
	TargetCount    int                    `json:"target_count"`
	BudgetAllocated float64               `json:"budget_allocated"`
	ProcessingMs   int64                  `json:"processing_ms"`
}
