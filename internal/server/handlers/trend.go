// internal/server/handlers/trend.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/dataset"
	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/storage"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/insight"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/listening"
)

// RequiredFields of an analysis request
var RequiredFields = []string{"keyword", "platform", "start_date", "end_date"}

// Reporter runs a full trend report
type Reporter interface {
	Run(ctx context.Context, q trend.Query) (insight.Report, error)
}

// Catalog lists the trends available in the dataset
type Catalog interface {
	Trends(limit int) ([]dataset.Summary, error)
}

// History lists stored analyses
type History interface {
	RecentAnalyses(ctx context.Context, limit int) ([]storage.AnalysisRecord, error)
}

// Watchlist reports the latest state of background-watched trends
type Watchlist interface {
	Statuses() []listening.WatchStatus
}

// AnalyzeRequest is the body of POST /analyze-trend
type AnalyzeRequest struct {
	Keyword   string `json:"keyword" validate:"required"`
	Platform  string `json:"platform" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// Query validates the request and converts it to an analysis query
func (req AnalyzeRequest) Query(v *validator.Validate) (trend.Query, error) {
	req.Keyword = strings.TrimSpace(req.Keyword)
	req.Platform = strings.TrimSpace(req.Platform)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)

	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "required" {
					return trend.Query{}, errMissingFields
				}
			}
		}
		return trend.Query{}, fmt.Errorf("%w: dates must use YYYY-MM-DD", errInvalidDateRange)
	}

	start, _ := time.Parse(trend.DateLayout, req.StartDate)
	end, _ := time.Parse(trend.DateLayout, req.EndDate)
	if start.After(end) {
		return trend.Query{}, fmt.Errorf("%w: start_date must not be after end_date", errInvalidDateRange)
	}

	return trend.Query{
		Keyword:   req.Keyword,
		Platform:  req.Platform,
		StartDate: start,
		EndDate:   end,
	}, nil
}

var (
	errMissingFields    = fmt.Errorf("%w: missing required fields", ErrInvalidRequest)
	errInvalidDateRange = fmt.Errorf("%w: invalid date range", ErrInvalidRequest)
)

// TrendHandler handles trend analysis HTTP requests
type TrendHandler struct {
	// Watchlist is optional
	Watchlist Watchlist

	reporter Reporter
	catalog  Catalog
	history  History
	validate *validator.Validate
	logger   *slog.Logger
}

// NewTrendHandler creates a new trend handler. catalog and history may be nil.
func NewTrendHandler(reporter Reporter, catalog Catalog, history History, logger *slog.Logger) *TrendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendHandler{
		reporter: reporter,
		catalog:  catalog,
		history:  history,
		validate: validator.New(),
		logger:   logger.With("component", "http"),
	}
}

// Health reports that the API is up
func (h *TrendHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "API is running",
	})
}

// GetPlatforms returns the supported platforms
func (h *TrendHandler) GetPlatforms(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string][]string{"platforms": trend.Platforms})
}

// AnalyzeTrend runs a decline analysis for the posted query
func (h *TrendHandler) AnalyzeTrend(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":    "Missing required fields",
			"required": RequiredFields,
		})
		return
	}

	q, err := req.Query(h.validate)
	switch {
	case errors.Is(err, errMissingFields):
		respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":    "Missing required fields",
			"required": RequiredFields,
		})
		return
	case errors.Is(err, errInvalidDateRange):
		respondWithJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Invalid date range",
			"message": strings.TrimPrefix(err.Error(), errInvalidDateRange.Error()+": "),
		})
		return
	}

	report, err := h.reporter.Run(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "analysis failed",
			"keyword", q.Keyword,
			"platform", q.Platform,
			"error", err,
		)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": "analysis failed",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, insight.NewResponse(report))
}

// GetTrends returns the hashtag/platform pairs available in the dataset
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = dataset.DefaultTrendsLimit
	}

	trends := []dataset.Summary{}
	if h.catalog != nil {
		found, err := h.catalog.Trends(limit)
		switch {
		case err == nil:
			trends = found
		case errors.Is(err, trend.ErrNoData):
		default:
			respondWithError(w, r, h.logger, http.StatusInternalServerError, "Failed to get trends", err)
			return
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"trends": trends,
		"count":  len(trends),
	})
}

// GetAnalyses returns the most recent stored analyses
func (h *TrendHandler) GetAnalyses(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondWithError(w, r, h.logger, http.StatusNotFound, "Analysis history is not enabled", nil)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.history.RecentAnalyses(r.Context(), limit)
	if err != nil {
		respondWithError(w, r, h.logger, http.StatusInternalServerError, "Failed to get analyses", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": records,
		"count":    len(records),
	})
}

// GetWatchlist returns the latest status of every watched trend
func (h *TrendHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	if h.Watchlist == nil {
		respondWithError(w, r, h.logger, http.StatusNotFound, "Watchlist is not enabled", nil)
		return
	}

	statuses := h.Watchlist.Statuses()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"watchlist": statuses,
		"count":     len(statuses),
	})
}
