package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/dataset"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

type mockDB struct {
	mock.Mock
}

var _ DB = &mockDB{}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	a := m.Called(ctx, sql, args)
	return pgconn.CommandTag(a.String(0)), a.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	a := m.Called(ctx, sql, args)
	rows, _ := a.Get(0).(pgx.Rows)
	return rows, a.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	a := m.Called(ctx, sql, args)
	return a.Get(0).(pgx.Row)
}

func (m *mockDB) CopyFrom(ctx context.Context, table pgx.Identifier, cols []string, src pgx.CopyFromSource) (int64, error) {
	a := m.Called(ctx, table, cols, src)
	return a.Get(0).(int64), a.Error(1)
}

func TestEnsureSchema(t *testing.T) {
	db := &mockDB{}
	db.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "CREATE TABLE IF NOT EXISTS posts") &&
			strings.Contains(sql, "CREATE TABLE IF NOT EXISTS analyses")
	}), mock.Anything).Return("CREATE TABLE", nil)

	require.NoError(t, EnsureSchema(context.Background(), db))
	db.AssertExpectations(t)
}

func TestEnsureSchemaError(t *testing.T) {
	db := &mockDB{}
	db.On("Exec", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("permission denied"))

	err := EnsureSchema(context.Background(), db)
	assert.ErrorContains(t, err, "permission denied")
}

func TestImport(t *testing.T) {
	rows := []dataset.Row{
		{PostID: "p1", PostDate: "01-01-2024", Platform: "TikTok", Hashtag: "#Gaming", Likes: 5},
		{PostID: "p2", PostDate: "bogus", Platform: "TikTok", Hashtag: "#Gaming"},
		{PostID: "p3", PostDate: "02-01-2024", Platform: "TikTok", Hashtag: "#Gaming", Views: 100},
	}

	db := &mockDB{}
	db.On("CopyFrom", mock.Anything, pgx.Identifier{"posts"}, postColumns, mock.Anything).Return(int64(2), nil)

	imported, skipped, err := NewPostStore(db).Import(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), imported)
	assert.Equal(t, 1, skipped)
	db.AssertExpectations(t)
}

func TestImportNothing(t *testing.T) {
	db := &mockDB{}

	imported, skipped, err := NewPostStore(db).Import(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, imported)
	assert.Zero(t, skipped)
	db.AssertNotCalled(t, "CopyFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCopyRows(t *testing.T) {
	values, skipped := copyRows([]dataset.Row{
		{PostID: "p1", PostDate: "31-12-2023", Platform: " TikTok ", Hashtag: "#Gaming", ContentType: "Video",
			Region: "USA", Views: 1, Likes: 2, Shares: 3, Comments: 4, EngagementLevel: "High"},
	})

	assert.Zero(t, skipped)
	require.Len(t, values, 1)
	require.Len(t, values[0], len(postColumns))
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), values[0][1])
	assert.Equal(t, "TikTok", values[0][2])
	assert.Equal(t, int64(4), values[0][9])
}

func TestFetchArgs(t *testing.T) {
	args := fetchArgs(trend.Query{
		Keyword:   " #Gaming ",
		Platform:  "TikTok",
		StartDate: time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, []interface{}{
		"gaming",
		"TikTok",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
	}, args)
}

func TestFetchQueryError(t *testing.T) {
	db := &mockDB{}
	db.On("Query", mock.Anything, fetchDailyQuery, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := NewPostStore(db).Fetch(context.Background(), trend.Query{Keyword: "x", Platform: "y"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, trend.ErrNoData)
}

func TestSaveAnalysis(t *testing.T) {
	result := trend.AnalysisResult{
		Query:          trend.Query{Keyword: "#Gaming", Platform: "TikTok"},
		Signals:        trend.DeclineSignals{EngagementDropPct: 92, InfluencerActivityRatio: 0.3},
		Importance:     trend.FeatureImportance{EngagementDecay: 0.35},
		Classification: trend.Classification{Status: trend.StatusCriticalDecline, Confidence: 0.85, DeclineTime: "1–3 days"},
		Reasoning:      "Engagement dropped.",
		DataSource:     trend.DataSourceReal,
	}
	at := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	rec := NewAnalysisRecord("0b6f2b38-0c4b-4b43-9a4a-1c6f0c1b7a10", result, at)

	db := &mockDB{}
	db.On("Exec", mock.Anything, mock.Anything, mock.MatchedBy(func(args []interface{}) bool {
		if len(args) != 13 {
			return false
		}
		var signals trend.DeclineSignals
		if err := json.Unmarshal(args[9].([]byte), &signals); err != nil {
			return false
		}
		return args[0] == rec.ID &&
			args[5] == "Critical Decline" &&
			args[8] == "real_kaggle" &&
			signals == result.Signals &&
			args[12] == at
	})).Return("INSERT 0 1", nil)

	require.NoError(t, NewAnalysisStore(db).SaveAnalysis(context.Background(), rec))
	db.AssertExpectations(t)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultHistoryLimit, clampLimit(0))
	assert.Equal(t, DefaultHistoryLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxHistoryLimit, clampLimit(500))
}
