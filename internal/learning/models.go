package learning

import (
	"time"

	"github.com/fieldreach/intelligence-api/internal/trigger"
)

// Stats aggregates historical campaign performance for one
// (trigger category, channel, donor segment) key. Append/merge-only.
type Stats struct {
	Category         trigger.Category `json:"category"`
	Channel          string           `json:"channel"`
	Segment          string           `json:"segment"`
	TotalSends       int64            `json:"totalSends"`
	TotalOpens       int64            `json:"totalOpens"`
	TotalClicks      int64            `json:"totalClicks"`
	TotalConversions int64            `json:"totalConversions"`
	TotalRevenue     float64          `json:"totalRevenue"`
	AvgROI           float64          `json:"avgRoi"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Outcome is one observed campaign-result batch to merge into the stats
type Outcome struct {
	Category    trigger.Category `json:"category"`
	Channel     string           `json:"channel"`
	Segment     string           `json:"segment"`
	Sends       int64            `json:"sends"`
	Opens       int64            `json:"opens"`
	Clicks      int64            `json:"clicks"`
	Conversions int64            `json:"conversions"`
	Revenue     float64          `json:"revenue"`
}

// costPerSend is the flat per-send cost estimate used for the ROI ratio
const costPerSend = 0.01

// ROI returns the batch return on investment, revenue over estimated spend.
// A batch without sends has no measurable ROI and counts as 0.
func (o Outcome) ROI() float64 {
	if o.Sends <= 0 {
		return 0
	}
	return o.Revenue / (float64(o.Sends) * costPerSend)
}
