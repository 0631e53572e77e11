package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAnalysisEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	r := AnalysisResult{
		Query: Query{Keyword: "#Gaming", Platform: "TikTok"},
		Classification: Classification{
			Status:      StatusEarlyDecline,
			Confidence:  0.6,
			DeclineTime: "5–7 days",
		},
		DataSource: DataSourceSimulated,
	}

	event := NewAnalysisEvent("a1", r, at)

	assert.Equal(t, "a1", event.ID)
	assert.Equal(t, "#Gaming", event.Keyword)
	assert.Equal(t, "TikTok", event.Platform)
	assert.Equal(t, StatusEarlyDecline, event.TrendStatus)
	assert.Equal(t, 0.6, event.ConfidenceScore)
	assert.Equal(t, "5–7 days", event.PredictedDeclineTime)
	assert.Equal(t, DataSourceSimulated, event.DataSource)
	assert.Equal(t, time.UTC, event.AnalyzedAt.Location())
	assert.True(t, at.Equal(event.AnalyzedAt))
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(" #Gaming ", "TikTok", "2024-01-01", "2024-01-01")
	assert.NoError(t, err)
	assert.Equal(t, "#Gaming", q.Keyword)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), q.StartDate)
	assert.True(t, q.StartDate.Equal(q.EndDate))

	_, err = ParseQuery("#Gaming", " ", "2024-01-01", "2024-01-31")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = ParseQuery("#Gaming", "TikTok", "2024/01/01", "2024-01-31")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ParseQuery("#Gaming", "TikTok", "2024-02-01", "2024-01-31")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
