// internal/adapter/storage/post_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/dataset"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

var postColumns = []string{
	"post_id", "post_date", "platform", "hashtag", "content_type", "region",
	"views", "likes", "shares", "comments", "engagement_level",
}

// PostStore serves lifecycle series from the posts table
type PostStore struct {
	db DB
}

// NewPostStore creates a new post store
func NewPostStore(db DB) *PostStore {
	return &PostStore{
		db: db,
	}
}

// Import bulk-loads dataset rows into the posts table. Rows with an
// unreadable date are skipped and counted.
func (s *PostStore) Import(ctx context.Context, rows []dataset.Row) (imported int64, skipped int, err error) {
	values, skipped := copyRows(rows)
	if len(values) == 0 {
		return 0, skipped, nil
	}

	imported, err = s.db.CopyFrom(ctx, pgx.Identifier{"posts"}, postColumns, pgx.CopyFromRows(values))
	if err != nil {
		return 0, skipped, fmt.Errorf("error copying posts: %w", err)
	}
	return imported, skipped, nil
}

func copyRows(rows []dataset.Row) ([][]interface{}, int) {
	values := make([][]interface{}, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		post, err := r.Post()
		if err != nil {
			skipped++
			continue
		}
		values = append(values, []interface{}{
			r.PostID,
			post.Date,
			post.Platform,
			post.Hashtag,
			r.ContentType,
			r.Region,
			r.Views,
			r.Likes,
			r.Shares,
			r.Comments,
			r.EngagementLevel,
		})
	}
	return values, skipped
}

const fetchDailyQuery = `
	SELECT
		post_date,
		SUM(views)::BIGINT, SUM(likes)::BIGINT, SUM(shares)::BIGINT, SUM(comments)::BIGINT,
		COUNT(*)
	FROM posts
	WHERE STRPOS(LOWER(hashtag), $1) > 0
		AND LOWER(platform) = LOWER($2)
		AND post_date BETWEEN $3 AND $4
	GROUP BY post_date
	ORDER BY post_date
`

func fetchArgs(q trend.Query) []interface{} {
	day := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return []interface{}{
		trend.NormalizeKeyword(q.Keyword),
		q.Platform,
		day(q.StartDate),
		day(q.EndDate),
	}
}

// Fetch aggregates the matching posts per day in the database
func (s *PostStore) Fetch(ctx context.Context, q trend.Query) (trend.LifecycleSeries, error) {
	rows, err := s.db.Query(ctx, fetchDailyQuery, fetchArgs(q)...)
	if err != nil {
		return trend.LifecycleSeries{}, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var days []trend.DailyMetrics
	for rows.Next() {
		var d trend.DailyMetrics
		var posts int64
		if err := rows.Scan(&d.Day, &d.Views, &d.Likes, &d.Shares, &d.Comments, &posts); err != nil {
			return trend.LifecycleSeries{}, fmt.Errorf("error scanning row: %w", err)
		}
		d.Posts = int(posts)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return trend.LifecycleSeries{}, fmt.Errorf("error iterating rows: %w", err)
	}

	if len(days) == 0 {
		return trend.LifecycleSeries{}, trend.ErrNoData
	}
	return trend.SeriesFromDaily(days), nil
}
