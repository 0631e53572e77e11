package decline

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// Clause gates
const (
	velocityChangeGate = 20.0
	influencerGate     = 0.6
	saturationGate     = 0.7
	sentimentGate      = -0.3

	reasoningSplitDay = 7
)

// NoDeclineReasoning is returned when no evidence clause applies
const NoDeclineReasoning = "No strong decline indicators detected."

// GenerateReasoning builds a one-sentence evidence summary for the signals
func GenerateReasoning(s trend.DeclineSignals, _ trend.FeatureImportance, series trend.LifecycleSeries) string {
	var parts []string

	if change := velocityChange(series.Engagement); change > velocityChangeGate {
		parts = append(parts, fmt.Sprintf("Engagement velocity has decreased by %d%%", int(change)))
	}

	if s.InfluencerActivityRatio < influencerGate {
		drop := int((1 - s.InfluencerActivityRatio) * 100)
		parts = append(parts, fmt.Sprintf("influencer participation dropped by approximately %d%%", drop))
	}

	if s.ContentSaturationScore > saturationGate {
		parts = append(parts, "high content similarity indicates market saturation")
	}

	if s.SentimentScore < sentimentGate {
		parts = append(parts, "sentiment analysis shows declining audience interest")
	}

	if len(parts) == 0 {
		return NoDeclineReasoning
	}

	return capitalize(strings.Join(parts, " while ") + ".")
}

// velocityChange compares the average of the first week (or first half of a
// short series) with the average of the rest, in percent of the first
func velocityChange(engagement []int) float64 {
	n := len(engagement)
	split := n / 2
	if n > reasoningSplitDay {
		split = reasoningSplitDay
	}
	if split == 0 || split == n {
		return 0
	}

	first := mean(engagement[:split])
	if first == 0 {
		return 0
	}
	return 100 * (first - mean(engagement[split:])) / first
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
