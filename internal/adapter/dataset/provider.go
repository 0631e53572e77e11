package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// DefaultTrendsLimit is used when Trends is called with a non-positive limit
const DefaultTrendsLimit = 20

// Summary is one hashtag/platform pair available in the dataset
type Summary struct {
	Hashtag    string  `json:"Hashtag"`
	Platform   string  `json:"Platform"`
	TotalPosts int     `json:"Total_Posts"`
	Score      float64 `json:"-"`
}

// Provider loads the dataset file once, on first use, and answers lifecycle
// queries from memory. It is safe for concurrent use.
type Provider struct {
	path   string
	logger *slog.Logger

	once    sync.Once
	rows    []Row
	posts   []trend.Post
	loadErr error
}

// NewProvider creates a provider for the dataset at path. Files ending in
// .parquet are read as Parquet, anything else as CSV.
func NewProvider(path string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		path:   path,
		logger: logger.With("component", "dataset", "path", path),
	}
}

// Path returns the dataset location
func (p *Provider) Path() string {
	return p.path
}

func (p *Provider) load() error {
	p.once.Do(func() {
		rows, err := p.readRows()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				p.logger.Warn("dataset not found")
				p.loadErr = fmt.Errorf("dataset %s not found: %w", p.path, trend.ErrNoData)
				return
			}
			p.logger.Error("failed to load dataset", "error", err)
			p.loadErr = fmt.Errorf("failed to load dataset: %w", err)
			return
		}

		posts := make([]trend.Post, 0, len(rows))
		skipped := 0
		for _, r := range rows {
			post, err := r.Post()
			if err != nil {
				skipped++
				continue
			}
			posts = append(posts, post)
		}
		if skipped > 0 {
			p.logger.Warn("skipped rows with invalid dates", "count", skipped)
		}

		p.rows = rows
		p.posts = posts
		p.logger.Info("dataset loaded", "records", len(posts))
	})
	return p.loadErr
}

func (p *Provider) readRows() ([]Row, error) {
	if strings.EqualFold(filepath.Ext(p.path), ".parquet") {
		return ReadParquet(p.path)
	}

	file, err := os.Open(p.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return ReadCSV(file)
}

// Rows returns the raw dataset records
func (p *Provider) Rows() ([]Row, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	return p.rows, nil
}

// Posts returns every post with a valid date
func (p *Provider) Posts() ([]trend.Post, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	return p.posts, nil
}

// Fetch aggregates the matching posts into a daily lifecycle series
func (p *Provider) Fetch(ctx context.Context, q trend.Query) (trend.LifecycleSeries, error) {
	if err := p.load(); err != nil {
		return trend.LifecycleSeries{}, err
	}

	var matched []trend.Post
	for _, post := range p.posts {
		if q.Matches(post) {
			matched = append(matched, post)
		}
	}

	if len(matched) == 0 {
		p.logger.DebugContext(ctx, "no posts for query", "keyword", q.Keyword, "platform", q.Platform)
		return trend.LifecycleSeries{}, trend.ErrNoData
	}

	p.logger.DebugContext(ctx, "posts matched", "keyword", q.Keyword, "platform", q.Platform, "posts", len(matched))
	return trend.SeriesFromDaily(trend.AggregateDaily(matched)), nil
}

// Trends lists the hashtag/platform pairs with the most engagement, where
// engagement is likes plus one percent of views.
func (p *Provider) Trends(limit int) ([]Summary, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTrendsLimit
	}

	type key struct{ hashtag, platform string }
	groups := make(map[key]*Summary)
	for _, post := range p.posts {
		k := key{post.Hashtag, post.Platform}
		s, ok := groups[k]
		if !ok {
			s = &Summary{Hashtag: post.Hashtag, Platform: post.Platform}
			groups[k] = s
		}
		s.TotalPosts++
		s.Score += float64(post.Likes) + float64(post.Views)*0.01
	}

	summaries := make([]Summary, 0, len(groups))
	for _, s := range groups {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Hashtag != b.Hashtag {
			return a.Hashtag < b.Hashtag
		}
		return a.Platform < b.Platform
	})

	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// ExportParquet writes the loaded dataset to a Parquet file
func (p *Provider) ExportParquet(outputPath string) (int, error) {
	rows, err := p.Rows()
	if err != nil {
		return 0, err
	}
	if err := WriteParquet(rows, outputPath); err != nil {
		return 0, err
	}
	p.logger.Info("dataset exported", "output", outputPath, "records", len(rows))
	return len(rows), nil
}
