// internal/adapter/storage/trend_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// DefaultHistoryLimit and MaxHistoryLimit bound RecentAnalyses
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// AnalysisRecord is one stored analysis
type AnalysisRecord struct {
	ID          string                  `json:"id"`
	Keyword     string                  `json:"keyword"`
	Platform    string                  `json:"platform"`
	StartDate   time.Time               `json:"start_date"`
	EndDate     time.Time               `json:"end_date"`
	Status      trend.Status            `json:"trend_status"`
	Confidence  float64                 `json:"confidence_score"`
	DeclineTime string                  `json:"predicted_decline_time"`
	DataSource  trend.DataSource        `json:"data_source"`
	Signals     trend.DeclineSignals    `json:"decline_signals"`
	Importance  trend.FeatureImportance `json:"feature_importance"`
	Reasoning   string                  `json:"reasoning"`
	AnalyzedAt  time.Time               `json:"analyzed_at"`
}

// NewAnalysisRecord flattens an analysis result for storage
func NewAnalysisRecord(id string, r trend.AnalysisResult, analyzedAt time.Time) AnalysisRecord {
	return AnalysisRecord{
		ID:          id,
		Keyword:     r.Query.Keyword,
		Platform:    r.Query.Platform,
		StartDate:   r.Query.StartDate,
		EndDate:     r.Query.EndDate,
		Status:      r.Classification.Status,
		Confidence:  r.Classification.Confidence,
		DeclineTime: r.Classification.DeclineTime,
		DataSource:  r.DataSource,
		Signals:     r.Signals,
		Importance:  r.Importance,
		Reasoning:   r.Reasoning,
		AnalyzedAt:  analyzedAt,
	}
}

// AnalysisStore keeps the history of completed analyses
type AnalysisStore struct {
	db DB
}

// NewAnalysisStore creates a new analysis store
func NewAnalysisStore(db DB) *AnalysisStore {
	return &AnalysisStore{
		db: db,
	}
}

// SaveAnalysis saves an analysis, replacing any record with the same ID
func (s *AnalysisStore) SaveAnalysis(ctx context.Context, rec AnalysisRecord) error {
	query := `
		INSERT INTO analyses (
			id, keyword, platform, start_date, end_date,
			status, confidence, decline_time, data_source,
			signals, importance, reasoning, analyzed_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13
		)
		ON CONFLICT (id) DO UPDATE
		SET
			status = $6,
			confidence = $7,
			decline_time = $8,
			data_source = $9,
			signals = $10,
			importance = $11,
			reasoning = $12,
			analyzed_at = $13
	`

	if rec.AnalyzedAt.IsZero() {
		rec.AnalyzedAt = time.Now()
	}

	signalsJSON, err := json.Marshal(rec.Signals)
	if err != nil {
		return fmt.Errorf("error marshaling signals: %w", err)
	}

	importanceJSON, err := json.Marshal(rec.Importance)
	if err != nil {
		return fmt.Errorf("error marshaling importance: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		query,
		rec.ID,
		rec.Keyword,
		rec.Platform,
		rec.StartDate,
		rec.EndDate,
		string(rec.Status),
		rec.Confidence,
		rec.DeclineTime,
		string(rec.DataSource),
		signalsJSON,
		importanceJSON,
		rec.Reasoning,
		rec.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// Record stores a completed analysis under id
func (s *AnalysisStore) Record(ctx context.Context, id string, r trend.AnalysisResult, analyzedAt time.Time) error {
	return s.SaveAnalysis(ctx, NewAnalysisRecord(id, r, analyzedAt))
}

// RecentAnalyses returns the latest analyses, newest first
func (s *AnalysisStore) RecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	query := `
		SELECT
			id::TEXT, keyword, platform, start_date, end_date,
			status, confidence, decline_time, data_source,
			signals, importance, reasoning, analyzed_at
		FROM analyses
		ORDER BY analyzed_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	records := []AnalysisRecord{}
	for rows.Next() {
		var rec AnalysisRecord
		var status, source string
		var signalsJSON, importanceJSON []byte

		err := rows.Scan(
			&rec.ID,
			&rec.Keyword,
			&rec.Platform,
			&rec.StartDate,
			&rec.EndDate,
			&status,
			&rec.Confidence,
			&rec.DeclineTime,
			&source,
			&signalsJSON,
			&importanceJSON,
			&rec.Reasoning,
			&rec.AnalyzedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning analysis: %w", err)
		}
		rec.Status = trend.Status(status)
		rec.DataSource = trend.DataSource(source)

		if err := json.Unmarshal(signalsJSON, &rec.Signals); err != nil {
			return nil, fmt.Errorf("error unmarshaling signals: %w", err)
		}
		if err := json.Unmarshal(importanceJSON, &rec.Importance); err != nil {
			return nil, fmt.Errorf("error unmarshaling importance: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return records, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return min(limit, MaxHistoryLimit)
}
