package decline

import (
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// Signal bounds
const (
	minSentiment  = -1.0
	maxSentiment  = 0.5
	minInfluencer = 0.3
	maxInfluencer = 1.0

	// velocity below this is treated as a declining audience
	sentimentVelocityCutoff = -0.05
	declineSentimentFactor  = 5.0
	growthSentimentFactor   = 2.0

	maxWindow = 3
)

// CalculateSignals reduces a lifecycle series to its six decline signals.
// Degenerate series produce neutral values rather than errors.
func CalculateSignals(s trend.LifecycleSeries) trend.DeclineSignals {
	n := s.Len()
	if n == 0 {
		return trend.DeclineSignals{InfluencerActivityRatio: maxInfluencer}
	}

	engagement := s.Engagement
	posts := s.PostFrequency

	// window is at least one day so short series still compare first to last
	window := max(1, min(maxWindow, n/3))
	firstAvg := mean(engagement[:window])
	lastAvg := mean(engagement[n-window:])

	var signals trend.DeclineSignals

	if firstAvg > 0 {
		signals.EngagementDropPct = percent(firstAvg, lastAvg)
	}

	velocity := 0.0
	if n > 1 {
		velocity = olsSlope(engagement) / (mean(engagement) + 1)
	}
	signals.EngagementVelocity = roundTo(velocity, 3)

	peakPosts := float64(maxOf(posts))
	currentPosts := mean(posts[n-window:])
	if peakPosts > 0 {
		signals.PostFreqDeclinePct = percent(peakPosts, currentPosts)
	}

	// Posting that holds up while engagement falls means supply outruns attention
	postsRatio := currentPosts / (mean(posts) + 1)
	engagementRatio := lastAvg / (firstAvg + 1)
	signals.ContentSaturationScore = roundTo(clamp(postsRatio*(1-engagementRatio), 0, 1), 2)

	signals.SentimentScore = roundTo(clamp(sentimentProxy(velocity), minSentiment, maxSentiment), 2)

	influencer := currentPosts / (peakPosts + 1)
	signals.InfluencerActivityRatio = roundTo(clamp(influencer, minInfluencer, maxInfluencer), 2)

	return signals
}

// sentimentProxy amplifies declining velocity more than growing velocity
func sentimentProxy(velocity float64) float64 {
	if velocity < sentimentVelocityCutoff {
		return velocity * declineSentimentFactor
	}
	return velocity * growthSentimentFactor
}
