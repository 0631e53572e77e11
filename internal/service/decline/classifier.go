package decline

import (
	"math"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// Composite score weights
const (
	wEngagementDrop = 0.4
	wSentiment      = 0.2
	wInfluencer     = 0.2
	wSaturation     = 0.2

	confidenceScale = 1.2
	maxConfidence   = 0.99
)

// Status thresholds, evaluated from high to low
const (
	criticalThreshold = 0.7
	earlyThreshold    = 0.5
	plateauThreshold  = 0.3
)

// Decline-time buckets
const (
	DeclineTimeCritical   = "1–3 days"
	DeclineTimeEarly      = "5–7 days"
	DeclineTimePlateauing = "10–14 days"
	DeclineTimeGrowing    = "Not declining"
)

// DeclineScore blends the signals into one composite score
func DeclineScore(s trend.DeclineSignals) float64 {
	return wEngagementDrop*(float64(s.EngagementDropPct)/100) +
		wSentiment*math.Abs(s.SentimentScore) +
		wInfluencer*(1-s.InfluencerActivityRatio) +
		wSaturation*s.ContentSaturationScore
}

// StatusForScore maps a composite score to a status
func StatusForScore(score float64) trend.Status {
	switch {
	case score >= criticalThreshold:
		return trend.StatusCriticalDecline
	case score >= earlyThreshold:
		return trend.StatusEarlyDecline
	case score >= plateauThreshold:
		return trend.StatusPlateauing
	default:
		return trend.StatusGrowing
	}
}

// DeclineTime returns the coarse time-to-decline bucket for a status
func DeclineTime(status trend.Status) string {
	switch status {
	case trend.StatusCriticalDecline:
		return DeclineTimeCritical
	case trend.StatusEarlyDecline:
		return DeclineTimeEarly
	case trend.StatusPlateauing:
		return DeclineTimePlateauing
	default:
		return DeclineTimeGrowing
	}
}

// Classify assigns status, confidence and decline-time bucket
func Classify(s trend.DeclineSignals) trend.Classification {
	score := DeclineScore(s)
	status := StatusForScore(score)

	return trend.Classification{
		Status:      status,
		Confidence:  roundTo(math.Min(score*confidenceScale, maxConfidence), 2),
		DeclineTime: DeclineTime(status),
	}
}
