// internal/domain/trend/detector.go

package trend

import (
	"context"
	"time"
)

// LifecycleProvider supplies the daily series for a query
type LifecycleProvider interface {
	// Fetch returns the series for the query, or ErrNoData when the
	// provider has nothing for it
	Fetch(ctx context.Context, q Query) (LifecycleSeries, error)
}

// ProviderFunc adapts a function to LifecycleProvider
type ProviderFunc func(ctx context.Context, q Query) (LifecycleSeries, error)

// Fetch calls f
func (f ProviderFunc) Fetch(ctx context.Context, q Query) (LifecycleSeries, error) {
	return f(ctx, q)
}

// Analyzer scores a trend for decline
type Analyzer interface {
	// Analyze runs the full decline analysis for a query
	Analyze(ctx context.Context, q Query) (AnalysisResult, error)
}

// Explainer turns an analysis into free text. Implementations never fail;
// any internal problem is replaced by a locally generated explanation.
type Explainer interface {
	Explain(ctx context.Context, result AnalysisResult) string
}

// AnalysisEvent is published after an analysis completes
type AnalysisEvent struct {
	ID                   string     `json:"id"`
	Keyword              string     `json:"keyword"`
	Platform             string     `json:"platform"`
	TrendStatus          Status     `json:"trend_status"`
	ConfidenceScore      float64    `json:"confidence_score"`
	PredictedDeclineTime string     `json:"predicted_decline_time"`
	DataSource           DataSource `json:"data_source"`
	AnalyzedAt           time.Time  `json:"analyzed_at"`
}

// NewAnalysisEvent builds the event announcing a completed analysis
func NewAnalysisEvent(id string, r AnalysisResult, analyzedAt time.Time) AnalysisEvent {
	return AnalysisEvent{
		ID:                   id,
		Keyword:              r.Query.Keyword,
		Platform:             r.Query.Platform,
		TrendStatus:          r.Classification.Status,
		ConfidenceScore:      r.Classification.Confidence,
		PredictedDeclineTime: r.Classification.DeclineTime,
		DataSource:           r.DataSource,
		AnalyzedAt:           analyzedAt.UTC(),
	}
}

// EventPublisher announces completed analyses
type EventPublisher interface {
	PublishAnalysis(ctx context.Context, event AnalysisEvent) error
}
