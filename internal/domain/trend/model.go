package trend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the wire format of query dates
const DateLayout = "2006-01-02"

// ErrNoData is returned by a LifecycleProvider that has nothing for a query
var ErrNoData = errors.New("no lifecycle data")

// Query construction errors
var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidDateRange = errors.New("invalid date range")
)

// Status is the categorical decline state of a trend
type Status string

const (
	StatusGrowing         Status = "Growing"
	StatusPlateauing      Status = "Plateauing"
	StatusEarlyDecline    Status = "Early Decline"
	StatusCriticalDecline Status = "Critical Decline"
)

// Platforms lists the social platforms a trend can be analyzed on
var Platforms = []string{"Instagram", "TikTok", "Twitter/X", "YouTube", "LinkedIn"}

// DataSource tags whether an analysis ran on real or synthetic data
type DataSource string

const (
	DataSourceReal      DataSource = "real_kaggle"
	DataSourceSimulated DataSource = "simulated"
)

// Query identifies the trend to analyze
type Query struct {
	Keyword   string
	Platform  string
	StartDate time.Time
	EndDate   time.Time
}

// ParseQuery builds a query from raw fields. Dates use DateLayout and the
// range is inclusive, so start may equal end but not follow it.
func ParseQuery(keyword, platform, start, end string) (Query, error) {
	q := Query{
		Keyword:  strings.TrimSpace(keyword),
		Platform: strings.TrimSpace(platform),
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)

	for name, v := range map[string]string{
		"keyword":    q.Keyword,
		"platform":   q.Platform,
		"start_date": start,
		"end_date":   end,
	} {
		if v == "" {
			return Query{}, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}

	var err error
	if q.StartDate, err = time.Parse(DateLayout, start); err != nil {
		return Query{}, fmt.Errorf("%w: start_date %q is not YYYY-MM-DD", ErrInvalidDateRange, start)
	}
	if q.EndDate, err = time.Parse(DateLayout, end); err != nil {
		return Query{}, fmt.Errorf("%w: end_date %q is not YYYY-MM-DD", ErrInvalidDateRange, end)
	}
	if q.StartDate.After(q.EndDate) {
		return Query{}, fmt.Errorf("%w: start_date is after end_date", ErrInvalidDateRange)
	}

	return q, nil
}

// LifecycleSeries is the daily engagement and post-count series of a trend.
// Index i of every slice refers to the same day.
type LifecycleSeries struct {
	Dates         []string `json:"dates"`
	Engagement    []int    `json:"engagement"`
	PostFrequency []int    `json:"post_frequency"`
}

// NewLifecycleSeries copies the given slices into a new series. Slices are
// truncated to the shortest length so the equal-length invariant holds.
func NewLifecycleSeries(dates []string, engagement, posts []int) LifecycleSeries {
	n := min(len(dates), len(engagement), len(posts))

	s := LifecycleSeries{
		Dates:         make([]string, n),
		Engagement:    make([]int, n),
		PostFrequency: make([]int, n),
	}
	copy(s.Dates, dates)
	copy(s.Engagement, engagement)
	copy(s.PostFrequency, posts)
	return s
}

// Len returns the number of days in the series
func (s LifecycleSeries) Len() int {
	return len(s.Engagement)
}

// DeclineSignals are the six scalar indicators derived from a series
type DeclineSignals struct {
	EngagementDropPct       int     `json:"engagement_drop_pct"`
	EngagementVelocity      float64 `json:"engagement_velocity"`
	PostFreqDeclinePct      int     `json:"post_freq_decline_pct"`
	SentimentScore          float64 `json:"sentiment_score"`
	InfluencerActivityRatio float64 `json:"influencer_activity_ratio"`
	ContentSaturationScore  float64 `json:"content_saturation_score"`
}

// Factor names used in feature importance
const (
	FactorEngagementDecay   = "Engagement Decay"
	FactorInfluencerDrop    = "Influencer Drop"
	FactorContentSaturation = "Content Saturation"
	FactorAudienceFatigue   = "Audience Fatigue"
)

// FeatureImportance is the normalized contribution of each decline factor
type FeatureImportance struct {
	EngagementDecay   float64 `json:"Engagement Decay"`
	InfluencerDrop    float64 `json:"Influencer Drop"`
	ContentSaturation float64 `json:"Content Saturation"`
	AudienceFatigue   float64 `json:"Audience Fatigue"`
}

// FactorWeight pairs a factor name with its weight
type FactorWeight struct {
	Name   string
	Weight float64
}

// Ranked returns the factors ordered by weight, highest first. Equal weights
// keep the canonical factor order.
func (f FeatureImportance) Ranked() []FactorWeight {
	ranked := []FactorWeight{
		{Name: FactorEngagementDecay, Weight: f.EngagementDecay},
		{Name: FactorInfluencerDrop, Weight: f.InfluencerDrop},
		{Name: FactorContentSaturation, Weight: f.ContentSaturation},
		{Name: FactorAudienceFatigue, Weight: f.AudienceFatigue},
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})
	return ranked
}

// Sum returns the total of all weights
func (f FeatureImportance) Sum() float64 {
	return f.EngagementDecay + f.InfluencerDrop + f.ContentSaturation + f.AudienceFatigue
}

// Classification is the status verdict for a set of signals
type Classification struct {
	Status      Status
	Confidence  float64
	DeclineTime string
}

// AnalysisResult is the full output of one analysis
type AnalysisResult struct {
	Query          Query
	Lifecycle      LifecycleSeries
	Signals        DeclineSignals
	Importance     FeatureImportance
	Classification Classification
	Reasoning      string
	DataSource     DataSource
}
