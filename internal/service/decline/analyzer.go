// internal/service/decline/analyzer.go

package decline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// Analyzer implements trend.Analyzer on top of a lifecycle provider
type Analyzer struct {
	provider  trend.LifecycleProvider
	synthetic *SyntheticGenerator
	logger    *slog.Logger
}

// NewAnalyzer creates a new analyzer. A nil provider always falls back to
// synthetic data.
func NewAnalyzer(provider trend.LifecycleProvider, synthetic *SyntheticGenerator, logger *slog.Logger) *Analyzer {
	if synthetic == nil {
		synthetic = NewSyntheticGenerator(0)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{
		provider:  provider,
		synthetic: synthetic,
		logger:    logger.With("component", "decline_analyzer"),
	}
}

// Analyze fetches the lifecycle series for the query and scores it. When the
// provider has no data a simulated series is used and the result is tagged
// accordingly.
func (a *Analyzer) Analyze(ctx context.Context, q trend.Query) (trend.AnalysisResult, error) {
	series, source, err := a.lifecycle(ctx, q)
	if err != nil {
		return trend.AnalysisResult{}, err
	}

	a.logger.InfoContext(ctx, "analyzing trend",
		"keyword", q.Keyword,
		"platform", q.Platform,
		"days", series.Len(),
		"data_source", source,
	)

	return Evaluate(q, series, source), nil
}

func (a *Analyzer) lifecycle(ctx context.Context, q trend.Query) (trend.LifecycleSeries, trend.DataSource, error) {
	if a.provider != nil {
		series, err := a.provider.Fetch(ctx, q)
		switch {
		case err == nil && series.Len() > 0:
			return series, trend.DataSourceReal, nil
		case err != nil && !errors.Is(err, trend.ErrNoData):
			return trend.LifecycleSeries{}, "", fmt.Errorf("error fetching lifecycle: %w", err)
		}
	}

	a.logger.WarnContext(ctx, "no lifecycle data, using simulated series",
		"keyword", q.Keyword,
		"platform", q.Platform,
	)
	return a.synthetic.Generate(), trend.DataSourceSimulated, nil
}

// Evaluate runs the decline engine over an already fetched series
func Evaluate(q trend.Query, series trend.LifecycleSeries, source trend.DataSource) trend.AnalysisResult {
	signals := CalculateSignals(series)
	importance := EstimateImportance(signals)

	return trend.AnalysisResult{
		Query:          q,
		Lifecycle:      series,
		Signals:        signals,
		Importance:     importance,
		Classification: Classify(signals),
		Reasoning:      GenerateReasoning(signals, importance, series),
		DataSource:     source,
	}
}
