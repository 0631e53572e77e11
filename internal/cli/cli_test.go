package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/dataset"
	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/social"
	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/storage"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/decline"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/insight"
)

const sampleCSV = `Post_ID,Post_Date,Platform,Hashtag,Content_Type,Region,Views,Likes,Shares,Comments,Engagement_Level
p1,01-01-2024,TikTok,#Gaming,Video,USA,10000,500,20,40,High
p2,02-01-2024,TikTok,#Gaming,Video,UK,5000,100,10,10,Medium
p3,03-01-2024,TikTok,#Gaming,Video,USA,1000,10,1,1,Low
p4,01-01-2024,Instagram,#Food,Post,USA,100,5,0,0,Low
`

func init() {
	color.NoColor = true
}

func setupDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viral_trends.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	t.Setenv("DATASET_PATH", path)
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("NATS_ENABLED", "false")
	t.Setenv("TWITTER_BEARER_TOKEN", "")
	t.Setenv("FEATHERLESS_API_KEY", "")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	setupDataset(t)

	out, err := run(t, "analyze", "-k", "#gaming", "-p", "TikTok", "-s", "2024-01-01", "-e", "2024-01-03", "--json")
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "real_kaggle", body["data_source"])
	assert.Equal(t, "#gaming", body["keyword"])
	assert.NotEmpty(t, body["genai_insight"])
}

func TestAnalyzeTable(t *testing.T) {
	setupDataset(t)

	out, err := run(t, "analyze", "-k", "#gaming", "-p", "TikTok", "-s", "2024-01-01", "-e", "2024-01-03")
	require.NoError(t, err)
	assert.Contains(t, out, "#gaming on TikTok (2024-01-01 → 2024-01-03)")
	assert.Contains(t, out, "Engagement drop")
	assert.Contains(t, out, trend.FactorEngagementDecay)
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	_, err := run(t, "analyze", "-k", "#gaming", "-p", "TikTok", "-s", "2024-02-01", "-e", "2024-01-03")
	assert.ErrorIs(t, err, trend.ErrInvalidDateRange)

	_, err = run(t, "analyze", "-p", "TikTok", "-s", "2024-01-01", "-e", "2024-01-03")
	assert.ErrorIs(t, err, trend.ErrMissingField)
}

func TestPlatforms(t *testing.T) {
	out, err := run(t, "platforms")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(trend.Platforms, "\n")+"\n", out)
}

func TestTrendsJSON(t *testing.T) {
	setupDataset(t)

	out, err := run(t, "trends", "--json", "-n", "1")
	require.NoError(t, err)

	var got []dataset.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "#Gaming", got[0].Hashtag)
}

func TestTrendsMissingDataset(t *testing.T) {
	setupDataset(t)
	t.Setenv("DATASET_PATH", filepath.Join(t.TempDir(), "missing.csv"))

	out, err := run(t, "trends")
	require.NoError(t, err)
	assert.Contains(t, out, "No trends found")
}

func TestExport(t *testing.T) {
	setupDataset(t)
	target := filepath.Join(t.TempDir(), "trends.parquet")

	out, err := run(t, "export", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 4 rows")

	rows, err := dataset.ReadParquet(target)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, err = run(t, "export")
	assert.EqualError(t, err, "--out is required")
}

func TestHistoryNeedsDatabase(t *testing.T) {
	setupDataset(t)

	_, err := run(t, "history")
	assert.ErrorContains(t, err, "DB_ENABLED")

	_, err = run(t, "import")
	assert.ErrorContains(t, err, "DB_ENABLED")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, nil))
	assert.Contains(t, buf.String(), "No analyses recorded yet")

	buf.Reset()
	require.NoError(t, printHistory(&buf, []storage.AnalysisRecord{{
		Keyword:    "#Gaming",
		Platform:   "TikTok",
		Status:     trend.StatusCriticalDecline,
		Confidence: 0.95,
		DataSource: trend.DataSourceReal,
		AnalyzedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}}))
	assert.Contains(t, buf.String(), "2024-05-01 09:30")
	assert.Contains(t, buf.String(), "Critical Decline")
	assert.Contains(t, buf.String(), "0.95")
}

func TestPrintReportSimulated(t *testing.T) {
	q := trend.Query{
		Keyword:   "#Tech",
		Platform:  "YouTube",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
	}
	series := decline.NewSyntheticGenerator(3).Generate()
	report := insight.Report{
		Result:  decline.Evaluate(q, series, trend.DataSourceSimulated),
		Insight: "Shift budget to emerging formats before the audience moves on.",
	}

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, report, 40))
	assert.Contains(t, buf.String(), "simulated lifecycle")
	assert.Contains(t, buf.String(), "Insight")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 7))
	assert.Nil(t, wrap("   ", 10))
	assert.Equal(t, []string{"supercalifragilistic"}, wrap("supercalifragilistic", 5))
}

func TestCheckTwitterWithoutToken(t *testing.T) {
	setupDataset(t)

	out, err := run(t, "check-twitter")
	assert.ErrorIs(t, err, social.ErrNoToken)
	assert.Contains(t, out, "(length: 0)")
}
