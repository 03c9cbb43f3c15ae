package notification

import (
	"encoding/json"
	"time"

	"github.com/fieldreach/intelligence-api/internal/decision"
)

// Notification is a general interface for all notifications types
type Notification interface {
	ToBytes() ([]byte, error)
}

// DecisionNotification is pushed to connected operator consoles when the
// engine approves an event for execution
type DecisionNotification struct {
	Type         string            `json:"type"`
	CreationDate time.Time         `json:"creationDate"`
	Decision     decision.Decision `json:"decision"`
}

// NewDecisionNotification renders a new DecisionNotification instance for the given decision
func NewDecisionNotification(d decision.Decision) *DecisionNotification {
	return &DecisionNotification{
		Type:         "DecisionNotification",
		CreationDate: time.Now().UTC(),
		Decision:     d,
	}
}

// ToBytes convert a notification in a json byte slice to be sent though any required channel
func (n DecisionNotification) ToBytes() ([]byte, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return b, nil
}
