package fatigue

import (
	"time"
)

// Record tracks how often one contact has been reached on one channel.
// Counters only ever go up within their window; the window sweeps
// (ResetDaily and friends) are driven by the maintenance scheduler.
type Record struct {
	ContactID     string    `json:"contactId"`
	Channel       string    `json:"channel"`
	LastContactAt time.Time `json:"lastContactAt"`
	ContactsToday int       `json:"contactsToday"`
	ContactsWeek  int       `json:"contactsWeek"`
	ContactsMonth int       `json:"contactsMonth"`
	ContactsTotal int64     `json:"contactsTotal"`
}

// DefaultDailyCeiling is the number of contacts per day on any channel after
// which a contact is considered fatigued
const DefaultDailyCeiling = 3
