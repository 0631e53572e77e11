// Package explain turns decline analyses into short marketer-facing insights.
package explain

import (
	"context"
	"strconv"
	"strings"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// RuleExplainer writes insights from fixed templates keyed on the status and
// the two strongest decline factors
type RuleExplainer struct{}

var _ trend.Explainer = RuleExplainer{}

// Explain implements trend.Explainer
func (RuleExplainer) Explain(_ context.Context, r trend.AnalysisResult) string {
	ranked := r.Importance.Ranked()
	primary, secondary := ranked[0].Name, ranked[1].Name

	switch r.Classification.Status {
	case trend.StatusCriticalDecline:
		return criticalInsight(r.Signals, primary, secondary)
	case trend.StatusEarlyDecline:
		return earlyDeclineInsight(r.Signals, primary, secondary)
	case trend.StatusPlateauing:
		return plateauInsight(r.Signals)
	default:
		return growthInsight(r.Signals)
	}
}

func criticalInsight(s trend.DeclineSignals, primary, secondary string) string {
	var b strings.Builder
	b.WriteString("This trend is in critical decline. ")

	switch primary {
	case trend.FactorEngagementDecay:
		b.WriteString("The primary driver is severe engagement decay (" + strconv.Itoa(s.EngagementDropPct) + "% drop), ")
	case trend.FactorInfluencerDrop:
		reduction := int((1 - s.InfluencerActivityRatio) * 100)
		b.WriteString("The primary driver is sharp influencer abandonment (" + strconv.Itoa(reduction) + "% reduction), ")
	case trend.FactorContentSaturation:
		b.WriteString("The primary driver is extreme content saturation (score: " + formatScore(s.ContentSaturationScore) + "), ")
	default:
		b.WriteString("The primary driver is audience fatigue (sentiment: " + formatScore(s.SentimentScore) + "), ")
	}

	switch secondary {
	case trend.FactorEngagementDecay:
		b.WriteString("compounded by rapid engagement loss. ")
	case trend.FactorInfluencerDrop:
		b.WriteString("compounded by creator exodus. ")
	case trend.FactorContentSaturation:
		b.WriteString("compounded by content oversaturation. ")
	default:
		b.WriteString("compounded by negative sentiment shifts. ")
	}

	b.WriteString("Brands should immediately exit this trend or pivot to adjacent messaging. ")
	b.WriteString("Continuing investment will likely result in diminished ROI.")
	return b.String()
}

func earlyDeclineInsight(s trend.DeclineSignals, primary, secondary string) string {
	var b strings.Builder
	b.WriteString("This trend is entering an early decline phase. ")

	switch primary {
	case trend.FactorEngagementDecay:
		b.WriteString("Engagement metrics show consistent downward trajectory (" + strconv.Itoa(s.EngagementDropPct) + "% decline), ")
	case trend.FactorInfluencerDrop:
		b.WriteString("Key influencers are reducing participation, ")
	case trend.FactorContentSaturation:
		b.WriteString("Content saturation is becoming evident, ")
	default:
		b.WriteString("Audience sentiment is turning negative, ")
	}

	switch secondary {
	case trend.FactorInfluencerDrop:
		b.WriteString("and creator interest is waning. ")
	case trend.FactorContentSaturation:
		b.WriteString("and the market shows signs of oversaturation. ")
	default:
		b.WriteString("and engagement velocity is slowing. ")
	}

	b.WriteString("Brands still active in this trend should prepare exit strategies or refresh creative approaches. ")
	b.WriteString("There's a narrow window to capitalize before the trend becomes unprofitable.")
	return b.String()
}

func plateauInsight(s trend.DeclineSignals) string {
	var b strings.Builder
	b.WriteString("This trend is plateauing, showing early warning signs. ")

	if s.ContentSaturationScore > 0.6 {
		b.WriteString("Content saturation (score: " + formatScore(s.ContentSaturationScore) + ") suggests the trend is maturing. ")
	}
	if s.InfluencerActivityRatio < 0.7 {
		b.WriteString("Influencer engagement is moderating, which often precedes broader decline. ")
	}

	b.WriteString("Brands should monitor closely and consider diversifying their content strategy. ")
	b.WriteString("This is an optimal time to test new creative angles before momentum fully shifts.")
	return b.String()
}

func growthInsight(s trend.DeclineSignals) string {
	var b strings.Builder
	b.WriteString("This trend is still growing or maintaining strong momentum. ")

	if s.EngagementDropPct < 10 {
		b.WriteString("Engagement remains stable with minimal decay. ")
	}
	if s.InfluencerActivityRatio > 0.7 {
		b.WriteString("Influencer participation is strong, indicating continued creator interest. ")
	}

	b.WriteString("Brands can confidently invest in this trend, though monitoring for saturation signals is advisable.")
	return b.String()
}

// formatScore prints the shortest decimal form, keeping one decimal place
// for whole numbers (1 prints as 1.0)
func formatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
