package budget

// Record holds the spend ceilings and running totals for one (candidate,
// channel) pair. Remaining budget is ceiling minus spent and may legitimately
// go negative when overspend is permitted by the finance layer; the engine
// never enforces per-channel caps, it only reads availability.
type Record struct {
	CandidateID  string  `json:"candidateId"`
	Channel      string  `json:"channel"`
	DailyLimit   float64 `json:"dailyLimit"`
	WeeklyLimit  float64 `json:"weeklyLimit"`
	MonthlyLimit float64 `json:"monthlyLimit"`
	SpentToday   float64 `json:"spentToday"`
	SpentWeek    float64 `json:"spentWeek"`
	SpentMonth   float64 `json:"spentMonth"`
}

// RemainingToday returns the daily ceiling minus what was already spent today
func (r Record) RemainingToday() float64 {
	return r.DailyLimit - r.SpentToday
}
