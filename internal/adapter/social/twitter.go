// Package social serves lifecycle series from live social network APIs.
package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

const (
	// DefaultTwitterHost is the public API host
	DefaultTwitterHost = "https://api.twitter.com"

	// recent search only reaches back seven days
	searchWindow  = 7 * 24 * time.Hour
	pageSize      = 100
	defaultPages  = 5
	endTimeBuffer = 30 * time.Second
)

// IsTwitterPlatform reports whether the platform name refers to Twitter/X
func IsTwitterPlatform(platform string) bool {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "twitter", "x", "twitter/x":
		return true
	}
	return false
}

type bearer struct {
	token string
}

func (b bearer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+b.token)
}

// TwitterProvider builds lifecycle series from the recent search API
type TwitterProvider struct {
	client   *twitter.Client
	enabled  bool
	maxPages int
	now      func() time.Time
	logger   *slog.Logger
}

// NewTwitterProvider creates a provider. Without a bearer token every fetch
// reports trend.ErrNoData.
func NewTwitterProvider(bearerToken, host string, httpClient *http.Client, logger *slog.Logger) *TwitterProvider {
	if host == "" {
		host = DefaultTwitterHost
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: time.Second * 10,
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TwitterProvider{
		client: &twitter.Client{
			Authorizer: bearer{token: bearerToken},
			Client:     httpClient,
			Host:       strings.TrimRight(host, "/"),
		},
		enabled:  bearerToken != "",
		maxPages: defaultPages,
		now:      time.Now,
		logger:   logger.With("component", "twitter"),
	}
}

// Fetch implements trend.LifecycleProvider
func (p *TwitterProvider) Fetch(ctx context.Context, q trend.Query) (trend.LifecycleSeries, error) {
	if !p.enabled || !IsTwitterPlatform(q.Platform) {
		return trend.LifecycleSeries{}, trend.ErrNoData
	}
	keyword := trend.NormalizeKeyword(q.Keyword)
	if keyword == "" {
		return trend.LifecycleSeries{}, trend.ErrNoData
	}

	start, end, ok := p.searchRange(q)
	if !ok {
		return trend.LifecycleSeries{}, trend.ErrNoData
	}

	opts := twitter.TweetRecentSearchOpts{
		TweetFields: []twitter.TweetField{
			twitter.TweetFieldCreatedAt,
			twitter.TweetFieldPublicMetrics,
		},
		StartTime:  start,
		EndTime:    end,
		MaxResults: pageSize,
	}

	var tweets []*twitter.TweetObj
	for page := 0; page < p.maxPages; page++ {
		resp, err := p.client.TweetRecentSearch(ctx, "#"+keyword+" -is:retweet", opts)
		if err != nil {
			return trend.LifecycleSeries{}, fmt.Errorf("twitter recent search: %w", err)
		}
		if resp.Raw != nil {
			tweets = append(tweets, resp.Raw.Tweets...)
		}
		if resp.Meta == nil || resp.Meta.NextToken == "" {
			break
		}
		opts.NextToken = resp.Meta.NextToken
	}

	posts := postsFromTweets(tweets, q.Platform, "#"+keyword)
	if len(posts) == 0 {
		return trend.LifecycleSeries{}, trend.ErrNoData
	}

	p.logger.DebugContext(ctx, "tweets collected", "keyword", keyword, "tweets", len(posts))
	return trend.SeriesFromDaily(trend.AggregateDaily(posts)), nil
}

// ErrNoToken is returned by Check when no bearer token is configured
var ErrNoToken = errors.New("twitter bearer token is not set")

// Check runs a minimal recent search to verify the bearer token and returns
// the number of tweets it saw
func (p *TwitterProvider) Check(ctx context.Context) (int, error) {
	if !p.enabled {
		return 0, ErrNoToken
	}

	resp, err := p.client.TweetRecentSearch(ctx, "twitter", twitter.TweetRecentSearchOpts{
		TweetFields: []twitter.TweetField{twitter.TweetFieldPublicMetrics},
		MaxResults:  10,
	})
	if err != nil {
		return 0, fmt.Errorf("twitter recent search: %w", err)
	}
	if resp.Raw == nil {
		return 0, nil
	}
	return len(resp.Raw.Tweets), nil
}

// searchRange clamps the inclusive query days to what recent search serves
func (p *TwitterProvider) searchRange(q trend.Query) (time.Time, time.Time, bool) {
	now := p.now().UTC()
	earliest := now.Add(-searchWindow).Add(time.Minute)
	latest := now.Add(-endTimeBuffer)

	start := q.StartDate.UTC()
	end := q.EndDate.UTC().AddDate(0, 0, 1)
	if start.Before(earliest) {
		start = earliest
	}
	if end.After(latest) {
		end = latest
	}
	return start, end, start.Before(end)
}

func postsFromTweets(tweets []*twitter.TweetObj, platform, hashtag string) []trend.Post {
	posts := make([]trend.Post, 0, len(tweets))
	for _, t := range tweets {
		if t == nil {
			continue
		}
		created, err := time.Parse(time.RFC3339, t.CreatedAt)
		if err != nil {
			continue
		}

		post := trend.Post{
			ID:       t.ID,
			Date:     created.UTC(),
			Platform: platform,
			Hashtag:  hashtag,
		}
		if m := t.PublicMetrics; m != nil {
			post.Likes = int64(m.Likes)
			post.Comments = int64(m.Replies)
			post.Shares = int64(m.Retweets + m.Quotes)
			post.Views = int64(m.Impressions)
		}
		posts = append(posts, post)
	}
	return posts
}
