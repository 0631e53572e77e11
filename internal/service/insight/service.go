// Package insight runs a full trend report: decline analysis, explanation,
// event publication and history recording.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/explain"
)

// Recorder keeps completed analyses
type Recorder interface {
	Record(ctx context.Context, id string, result trend.AnalysisResult, analyzedAt time.Time) error
}

// Report is the outcome of one run
type Report struct {
	ID         string
	Result     trend.AnalysisResult
	Insight    string
	AnalyzedAt time.Time
}

// Service wires the analyzer to its collaborators
type Service struct {
	analyzer  trend.Analyzer
	explainer trend.Explainer
	publisher trend.EventPublisher
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithPublisher announces every report on the given publisher
func WithPublisher(p trend.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithRecorder stores every report with the given recorder
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a report service. A nil explainer uses the rule-based one.
func NewService(analyzer trend.Analyzer, explainer trend.Explainer, opts ...Option) *Service {
	if explainer == nil {
		explainer = explain.RuleExplainer{}
	}

	s := &Service{
		analyzer:  analyzer,
		explainer: explainer,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "insight")
	return s
}

// Run analyzes the query and explains the result. Publishing and recording
// failures are logged and do not fail the run.
func (s *Service) Run(ctx context.Context, q trend.Query) (Report, error) {
	result, err := s.analyzer.Analyze(ctx, q)
	if err != nil {
		return Report{}, fmt.Errorf("error analyzing trend: %w", err)
	}

	report := Report{
		ID:         uuid.NewString(),
		Result:     result,
		Insight:    s.explainer.Explain(ctx, result),
		AnalyzedAt: s.now().UTC(),
	}

	s.logger.InfoContext(ctx, "trend analyzed",
		"analysis_id", report.ID,
		"keyword", q.Keyword,
		"platform", q.Platform,
		"status", result.Classification.Status,
		"data_source", result.DataSource,
	)

	if s.publisher != nil {
		event := trend.NewAnalysisEvent(report.ID, result, report.AnalyzedAt)
		if err := s.publisher.PublishAnalysis(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish analysis event", "analysis_id", report.ID, "error", err)
		}
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, report.ID, result, report.AnalyzedAt); err != nil {
			s.logger.WarnContext(ctx, "failed to record analysis", "analysis_id", report.ID, "error", err)
		}
	}

	return report, nil
}
