package engine

import (
	"math"
	"strings"
)

// Urgency bands for the base channel mix
const (
	urgencyBandHigh = 8.0
	urgencyBandMid  = 5.0
)

// channelRule adds channels when the event type carries a marker keyword.
// The finite rule table replaces ad-hoc substring checks scattered through
// the selection logic; matching still keys off the event-type string so
// unregistered event types keep working.
type channelRule struct {
	keyword  string
	channels []Channel
}

var channelRules = []channelRule{
	{keyword: "crisis", channels: []Channel{ChannelPhone}},
	{keyword: "donation", channels: []Channel{ChannelDirectMail}},
	{keyword: "gotv", channels: []Channel{ChannelPhone, ChannelSMS, ChannelRVM}},
	{keyword: "major_donor", channels: []Channel{ChannelVideo}},
	{keyword: "thank_you", channels: []Channel{ChannelVideo}},
}

// selectChannels returns the channel mix for an approved event: a base set
// from the urgency band, plus the additions of every matching keyword rule.
// The result is a set union; order carries no meaning.
func selectChannels(urgency float64, eventType string) []Channel {
	var base []Channel
	switch {
	case urgency >= urgencyBandHigh:
		base = []Channel{ChannelSMS, ChannelEmail, ChannelSocial}
	case urgency >= urgencyBandMid:
		base = []Channel{ChannelEmail, ChannelSocial}
	default:
		base = []Channel{ChannelEmail}
	}

	selected := make([]Channel, 0, len(base)+3)
	seen := make(map[Channel]bool, len(base)+3)
	add := func(channels []Channel) {
		for _, c := range channels {
			if !seen[c] {
				seen[c] = true
				selected = append(selected, c)
			}
		}
	}

	add(base)
	for _, rule := range channelRules {
		if strings.Contains(eventType, rule.keyword) {
			add(rule.channels)
		}
	}
	return selected
}

// estimateBudget multiplies the per-contact cost of every selected channel by
// the target count and sums, rounded to cents
func estimateBudget(channels []Channel, targetCount int) float64 {
	total := 0.0
	for _, channel := range channels {
		cost, ok := channelCosts[channel]
		if !ok {
			cost = defaultChannelCost
		}
		total += cost * float64(targetCount)
	}
	return math.Round(total*100) / 100
}
