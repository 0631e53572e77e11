package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/storage"
	"github.com/maithilyrajpure/trend-decline-gen/internal/config"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/insight"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/listening"
)

type stubReporter struct{}

func (stubReporter) Run(context.Context, trend.Query) (insight.Report, error) {
	return insight.Report{}, nil
}

type stubHistory struct{}

func (stubHistory) RecentAnalyses(context.Context, int) ([]storage.AnalysisRecord, error) {
	return nil, nil
}

func serve(router http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	cfg := config.ServerConfig{CorsOrigins: []string{"*"}, RequestTimeout: time.Second}
	router := NewRouter(cfg, Deps{Reporter: stubReporter{}})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/platforms").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/trends").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(router, http.MethodGet, "/analyze-trend").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/analyses").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/ws/analyses").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/watchlist").Code)
}

func TestHistoryRoute(t *testing.T) {
	router := NewRouter(config.ServerConfig{}, Deps{Reporter: stubReporter{}, History: stubHistory{}})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/analyses").Code)
}

type stubWatchlist struct{}

func (stubWatchlist) Statuses() []listening.WatchStatus { return nil }

func TestWatchlistRoute(t *testing.T) {
	router := NewRouter(config.ServerConfig{}, Deps{Reporter: stubReporter{}, Watchlist: stubWatchlist{}})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/watchlist").Code)
}
