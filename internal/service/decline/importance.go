package decline

import (
	"math"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// EstimateImportance distributes the decline among the four factors. The
// weights are normalized to sum to one; when every raw weight is zero there
// is nothing to attribute and all weights stay zero.
func EstimateImportance(s trend.DeclineSignals) trend.FeatureImportance {
	raw := trend.FeatureImportance{
		EngagementDecay:   math.Abs(float64(s.EngagementDropPct)) / 100,
		InfluencerDrop:    1 - s.InfluencerActivityRatio,
		ContentSaturation: s.ContentSaturationScore,
		AudienceFatigue:   math.Abs(s.SentimentScore),
	}

	total := raw.Sum()
	if total <= 0 {
		return trend.FeatureImportance{}
	}

	return trend.FeatureImportance{
		EngagementDecay:   roundTo(raw.EngagementDecay/total, 2),
		InfluencerDrop:    roundTo(raw.InfluencerDrop/total, 2),
		ContentSaturation: roundTo(raw.ContentSaturation/total, 2),
		AudienceFatigue:   roundTo(raw.AudienceFatigue/total, 2),
	}
}
