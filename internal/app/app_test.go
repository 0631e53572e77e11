package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maithilyrajpure/trend-decline-gen/internal/config"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/listening"
)

const sampleCSV = `Post_ID,Post_Date,Platform,Hashtag,Content_Type,Region,Views,Likes,Shares,Comments,Engagement_Level
p1,01-01-2024,TikTok,#Gaming,Video,USA,10000,500,20,40,High
p2,02-01-2024,TikTok,#Gaming,Video,UK,5000,100,10,10,Medium
p3,03-01-2024,TikTok,#Gaming,Video,USA,1000,10,1,1,Low
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viral_trends.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	return config.Config{
		Environment: "development",
		Dataset:     config.DatasetConfig{Path: path},
		Analysis:    config.AnalysisConfig{SyntheticSeed: 7},
	}
}

func TestNewWithLocalBackendsOnly(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"dataset"}, a.Chain.Names())
	assert.Nil(t, a.Pool)
	assert.Nil(t, a.Bus)
	assert.Error(t, a.RequireDatabase())

	deps := a.ServerDeps()
	assert.Nil(t, deps.History)
	assert.Nil(t, deps.Events)
	assert.Nil(t, deps.Watchlist)
	assert.Nil(t, a.Watcher)
	assert.NotNil(t, deps.Catalog)

	q := trend.Query{
		Keyword:   "#gaming",
		Platform:  "TikTok",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	report, err := a.Reporter.Run(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, trend.DataSourceReal, report.Result.DataSource)
	assert.Equal(t, []int{820, 230, 28}, report.Result.Lifecycle.Engagement)
	assert.NotEmpty(t, report.Insight)

	q.Keyword = "#Unknown"
	report, err = a.Reporter.Run(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, trend.DataSourceSimulated, report.Result.DataSource)
}

func TestNewWithTwitterToken(t *testing.T) {
	cfg := testConfig(t)
	cfg.Twitter = config.TwitterConfig{BearerToken: "token", Host: "http://127.0.0.1:1"}

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"dataset", "twitter"}, a.Chain.Names())
}

func TestNewWithWatchlist(t *testing.T) {
	cfg := testConfig(t)
	cfg.Watch = config.WatchConfig{
		Trends:        []string{"#Gaming@TikTok", "#Food@Instagram"},
		Interval:      time.Hour,
		MaxConcurrent: 2,
	}

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Watcher)
	assert.NotNil(t, a.ServerDeps().Watchlist)

	a.Watcher.Scan(context.Background())
	statuses := a.Watcher.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "#Food", statuses[0].Keyword)
	assert.NotEmpty(t, statuses[0].AnalysisID)
}

func TestNewWithInvalidWatchlist(t *testing.T) {
	cfg := testConfig(t)
	cfg.Watch = config.WatchConfig{Trends: []string{"no-platform"}, Interval: time.Hour}

	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "invalid watch entry")
}

func TestLogStatusChange(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "development")

	change := listening.StatusChange{
		Target:   listening.WatchTarget{Keyword: "#Gaming", Platform: "TikTok"},
		Previous: trend.StatusGrowing,
	}
	change.Report.Result.Classification.Status = trend.StatusCriticalDecline

	require.NoError(t, logStatusChange(logger)(change))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "target=#Gaming@TikTok")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "debug", "production").Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	NewLogger(&buf, "bogus", "development").Debug("hidden")
	assert.Empty(t, buf.String())

	NewLogger(&buf, "warn", "development").Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
