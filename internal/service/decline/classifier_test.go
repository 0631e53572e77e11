package decline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

func TestEstimateImportance(t *testing.T) {
	imp := EstimateImportance(CalculateSignals(linearDecline()))

	assert.Equal(t, 0.35, imp.EngagementDecay)
	assert.Equal(t, 0.27, imp.InfluencerDrop)
	assert.Equal(t, 0.09, imp.ContentSaturation)
	assert.Equal(t, 0.3, imp.AudienceFatigue)
	// each weight is rounded on its own, so the total may be off by a rounding step
	assert.InDelta(t, 1.0, imp.Sum(), 0.02)
	assert.Equal(t, trend.FactorEngagementDecay, imp.Ranked()[0].Name)
}

func TestEstimateImportanceAllZero(t *testing.T) {
	imp := EstimateImportance(trend.DeclineSignals{InfluencerActivityRatio: 1.0})
	assert.Equal(t, trend.FeatureImportance{}, imp)
}

func TestEstimateImportanceSumsToOne(t *testing.T) {
	for drop := 0; drop <= 100; drop += 5 {
		for _, sentiment := range []float64{-1, -0.42, 0, 0.13, 0.5} {
			s := trend.DeclineSignals{
				EngagementDropPct:       drop,
				SentimentScore:          sentiment,
				InfluencerActivityRatio: 0.55,
				ContentSaturationScore:  0.31,
			}
			assert.InDelta(t, 1.0, EstimateImportance(s).Sum(), 0.02, "drop=%d sentiment=%v", drop, sentiment)
		}
	}
}

func TestStatusForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  trend.Status
	}{
		{-0.1, trend.StatusGrowing},
		{0, trend.StatusGrowing},
		{0.2999, trend.StatusGrowing},
		{0.3, trend.StatusPlateauing},
		{0.4999, trend.StatusPlateauing},
		{0.5, trend.StatusEarlyDecline},
		{0.6999, trend.StatusEarlyDecline},
		{0.7, trend.StatusCriticalDecline},
		{1.5, trend.StatusCriticalDecline},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForScore(tt.score), "score %v", tt.score)
	}
}

func TestDeclineTime(t *testing.T) {
	assert.Equal(t, "1–3 days", DeclineTime(trend.StatusCriticalDecline))
	assert.Equal(t, "5–7 days", DeclineTime(trend.StatusEarlyDecline))
	assert.Equal(t, "10–14 days", DeclineTime(trend.StatusPlateauing))
	assert.Equal(t, "Not declining", DeclineTime(trend.StatusGrowing))
}

func TestDeclineScoreMonotonicInDrop(t *testing.T) {
	base := trend.DeclineSignals{
		SentimentScore:          -0.2,
		InfluencerActivityRatio: 0.7,
		ContentSaturationScore:  0.4,
	}

	prev := DeclineScore(base)
	for drop := 1; drop <= 100; drop++ {
		base.EngagementDropPct = drop
		score := DeclineScore(base)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestClassify(t *testing.T) {
	t.Run("linear decline is critical", func(t *testing.T) {
		c := Classify(CalculateSignals(linearDecline()))
		assert.Equal(t, trend.StatusCriticalDecline, c.Status)
		assert.Equal(t, 0.85, c.Confidence)
		assert.Equal(t, DeclineTimeCritical, c.DeclineTime)
	})

	t.Run("flat series is growing", func(t *testing.T) {
		c := Classify(CalculateSignals(flat()))
		assert.Equal(t, trend.StatusGrowing, c.Status)
		assert.Equal(t, 0.0, c.Confidence)
		assert.Equal(t, DeclineTimeGrowing, c.DeclineTime)
	})

	t.Run("confidence is capped", func(t *testing.T) {
		c := Classify(trend.DeclineSignals{
			EngagementDropPct:       100,
			SentimentScore:          -1,
			InfluencerActivityRatio: 0.3,
			ContentSaturationScore:  1,
		})
		assert.Equal(t, 0.99, c.Confidence)
	})
}
