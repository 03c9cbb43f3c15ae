package trigger

import (
	"errors"
	"strings"
	"time"

	"github.com/PaesslerAG/gval"
	"go.uber.org/zap"
)

// Category is the fixed taxonomy of campaign events a trigger can belong to.
// Every registered trigger declares exactly one category; unregistered event
// types are mapped into the taxonomy from their type prefix.
type Category string

const (
	CategoryNews       Category = "news"
	CategoryDonation   Category = "donation"
	CategoryEngagement Category = "engagement"
	CategoryCalendar   Category = "calendar"
	CategoryCompliance Category = "compliance"
	CategoryBudget     Category = "budget"
	CategoryCrisis     Category = "crisis"
	CategoryGotv       Category = "gotv"
	CategoryGeneral    Category = "general"
)

// AllCategories lists every valid trigger category
var AllCategories = []Category{
	CategoryNews, CategoryDonation, CategoryEngagement, CategoryCalendar,
	CategoryCompliance, CategoryBudget, CategoryCrisis, CategoryGotv, CategoryGeneral,
}

// IsValid checks if the category is part of the fixed taxonomy
func (c Category) IsValid() bool {
	for _, category := range AllCategories {
		if c == category {
			return true
		}
	}
	return false
}

// CategoryFromEventType maps an event-type string to a category using the
// portion before the first '.' separator. Event types without a separator or
// with an unknown prefix fall back to the general category.
func CategoryFromEventType(eventType string) Category {
	prefix := eventType
	if idx := strings.Index(eventType, "."); idx >= 0 {
		prefix = eventType[:idx]
	}
	c := Category(prefix)
	if c.IsValid() {
		return c
	}
	return CategoryGeneral
}

// Trigger is a named rule definition matched against incoming event types
type Trigger struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Category        Category   `json:"category"`
	Priority        int        `json:"priority"`
	Enabled         bool       `json:"enabled"`
	CooldownSeconds int        `json:"cooldownSeconds"`
	Condition       string     `json:"condition,omitempty"`
	LastFiredAt     *time.Time `json:"lastFiredAt,omitempty"`
	FireCount       int64      `json:"fireCount"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsValid checks if a trigger definition is valid and has no missing mandatory fields
func (t *Trigger) IsValid() (bool, error) {
	if t.Name == "" {
		return false, errors.New("missing Name")
	}
	if !t.Category.IsValid() {
		return false, errors.New("invalid Category")
	}
	if t.Priority < 0 || t.Priority > 100 {
		return false, errors.New("priority out of range [0,100]")
	}
	if t.CooldownSeconds < 0 {
		return false, errors.New("negative CooldownSeconds")
	}
	if t.Condition != "" {
		if _, err := gval.Full().NewEvaluable(t.Condition); err != nil {
			return false, errors.New("invalid Condition expression: " + err.Error())
		}
	}
	return true, nil
}

// InCooldown returns true if the trigger fired within its cooldown window
func (t *Trigger) InCooldown(now time.Time) bool {
	if t.CooldownSeconds <= 0 || t.LastFiredAt == nil {
		return false
	}
	return now.Before(t.LastFiredAt.Add(time.Duration(t.CooldownSeconds) * time.Second))
}

// ConditionHolds evaluates the trigger condition expression against the event
// payload. An empty condition always holds. Evaluation errors and non-boolean
// results are treated as a non-match, never as a processing failure.
func (t *Trigger) ConditionHolds(params map[string]interface{}) bool {
	if t.Condition == "" {
		return true
	}
	result, err := gval.Evaluate(t.Condition, params)
	if err != nil {
		zap.L().Warn("Trigger condition evaluation failed",
			zap.String("trigger", t.Name), zap.String("condition", t.Condition), zap.Error(err))
		return false
	}
	holds, ok := result.(bool)
	if !ok {
		zap.L().Warn("Trigger condition is not a boolean expression",
			zap.String("trigger", t.Name), zap.String("condition", t.Condition))
		return false
	}
	return holds
}
