// internal/service/listening/watcher.go

package listening

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/insight"
)

// Reporter runs a full trend report
type Reporter interface {
	Run(ctx context.Context, q trend.Query) (insight.Report, error)
}

// WatchTarget is one keyword/platform pair the watcher re-analyzes
type WatchTarget struct {
	Keyword  string `json:"keyword"`
	Platform string `json:"platform"`
}

func (t WatchTarget) String() string {
	return t.Keyword + "@" + t.Platform
}

// ParseWatchList parses "keyword@platform" entries
func ParseWatchList(entries []string) ([]WatchTarget, error) {
	targets := make([]WatchTarget, 0, len(entries))
	seen := make(map[WatchTarget]bool)
	for _, e := range entries {
		keyword, platform, ok := strings.Cut(e, "@")
		keyword, platform = strings.TrimSpace(keyword), strings.TrimSpace(platform)
		if !ok || keyword == "" || platform == "" {
			return nil, fmt.Errorf("invalid watch entry %q: want keyword@platform", e)
		}
		t := WatchTarget{Keyword: keyword, Platform: platform}
		if seen[t] {
			continue
		}
		seen[t] = true
		targets = append(targets, t)
	}
	return targets, nil
}

// WatcherConfig contains configuration for the watcher
type WatcherConfig struct {
	Targets       []WatchTarget
	ScanInterval  time.Duration
	Lookback      time.Duration
	MaxConcurrent int
}

// StatusChange is reported when a watched trend is first seen or changes status
type StatusChange struct {
	Target   WatchTarget
	Previous trend.Status
	Report   insight.Report
}

// Current returns the new status
func (c StatusChange) Current() trend.Status {
	return c.Report.Result.Classification.Status
}

// WatchStatus is the latest known state of a watched trend
type WatchStatus struct {
	WatchTarget
	Status      trend.Status     `json:"trend_status"`
	Confidence  float64          `json:"confidence_score"`
	DataSource  trend.DataSource `json:"data_source"`
	AnalysisID  string           `json:"analysis_id"`
	LastChecked time.Time        `json:"last_checked"`
}

// Watcher periodically re-analyzes a watchlist of trends
type Watcher struct {
	reporter Reporter
	config   WatcherConfig
	handlers []func(StatusChange) error
	statuses map[WatchTarget]WatchStatus
	mu       sync.RWMutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	now      func() time.Time
	logger   *slog.Logger
}

// NewWatcher creates a new watcher
func NewWatcher(reporter Reporter, config WatcherConfig, logger *slog.Logger) *Watcher {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	if config.Lookback <= 0 {
		config.Lookback = 14 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		reporter: reporter,
		config:   config,
		statuses: make(map[WatchTarget]WatchStatus),
		now:      time.Now,
		logger:   logger.With("component", "watcher"),
	}
}

// RegisterHandler registers a callback for status changes
func (w *Watcher) RegisterHandler(handler func(StatusChange) error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.handlers = append(w.handlers, handler)
}

// Start scans once and then on every tick until Stop is called
func (w *Watcher) Start(ctx context.Context) error {
	if w.config.ScanInterval <= 0 {
		return fmt.Errorf("scan interval must be positive")
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.config.ScanInterval)
		defer ticker.Stop()

		w.Scan(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Scan(ctx)
			}
		}
	}()

	w.logger.Info("watcher started", "targets", len(w.config.Targets), "interval", w.config.ScanInterval)
	return nil
}

// Scan analyzes every target once, at most MaxConcurrent at a time
func (w *Watcher) Scan(ctx context.Context) {
	end := truncateDay(w.now())
	start := end.Add(-w.config.Lookback)

	sem := make(chan struct{}, w.config.MaxConcurrent)
	var wg sync.WaitGroup
	for _, target := range w.config.Targets {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(t WatchTarget) {
			defer wg.Done()
			defer func() { <-sem }()
			w.check(ctx, t, start, end)
		}(target)
	}
	wg.Wait()
}

func (w *Watcher) check(ctx context.Context, t WatchTarget, start, end time.Time) {
	report, err := w.reporter.Run(ctx, trend.Query{
		Keyword:   t.Keyword,
		Platform:  t.Platform,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		w.logger.ErrorContext(ctx, "error analyzing watched trend", "target", t.String(), "error", err)
		return
	}

	res := report.Result
	w.mu.Lock()
	previous, seen := w.statuses[t]
	w.statuses[t] = WatchStatus{
		WatchTarget: t,
		Status:      res.Classification.Status,
		Confidence:  res.Classification.Confidence,
		DataSource:  res.DataSource,
		AnalysisID:  report.ID,
		LastChecked: report.AnalyzedAt,
	}
	handlers := make([]func(StatusChange) error, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	if seen && previous.Status == res.Classification.Status {
		return
	}

	change := StatusChange{Target: t, Previous: previous.Status, Report: report}
	for _, handler := range handlers {
		if err := handler(change); err != nil {
			w.logger.ErrorContext(ctx, "error in status handler", "target", t.String(), "error", err)
		}
	}
}

// Statuses returns the latest state of every checked target
func (w *Watcher) Statuses() []WatchStatus {
	w.mu.RLock()
	statuses := make([]WatchStatus, 0, len(w.statuses))
	for _, s := range w.statuses {
		statuses = append(statuses, s)
	}
	w.mu.RUnlock()

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].WatchTarget.String() < statuses[j].WatchTarget.String()
	})
	return statuses
}

// Stop gracefully stops the watcher
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	// Wait for the scan loop to finish with a timeout
	c := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(c)
	}()

	select {
	case <-c:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.logger.Info("watcher stopped")
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
