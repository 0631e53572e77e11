package insight

import (
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// Response is the wire form of a report
type Response struct {
	AnalysisID           string                  `json:"analysis_id"`
	Keyword              string                  `json:"keyword"`
	Platform             string                  `json:"platform"`
	TrendStatus          trend.Status            `json:"trend_status"`
	ConfidenceScore      float64                 `json:"confidence_score"`
	PredictedDeclineTime string                  `json:"predicted_decline_time"`
	Lifecycle            trend.LifecycleSeries   `json:"lifecycle"`
	DeclineSignals       trend.DeclineSignals    `json:"decline_signals"`
	FeatureImportance    trend.FeatureImportance `json:"feature_importance"`
	ExplainableReasoning string                  `json:"explainable_reasoning"`
	DataSource           trend.DataSource        `json:"data_source"`
	GenAIInsight         string                  `json:"genai_insight"`
}

// NewResponse flattens a report into its wire form
func NewResponse(r Report) Response {
	res := r.Result
	return Response{
		AnalysisID:           r.ID,
		Keyword:              res.Query.Keyword,
		Platform:             res.Query.Platform,
		TrendStatus:          res.Classification.Status,
		ConfidenceScore:      res.Classification.Confidence,
		PredictedDeclineTime: res.Classification.DeclineTime,
		Lifecycle:            res.Lifecycle,
		DeclineSignals:       res.Signals,
		FeatureImportance:    res.Importance,
		ExplainableReasoning: res.Reasoning,
		DataSource:           res.DataSource,
		GenAIInsight:         r.Insight,
	}
}
