// Package dataset serves lifecycle series from the viral-trends dataset,
// stored either as CSV or as Parquet.
package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// PostDateLayout is the day-first date format of the Post_Date column
const PostDateLayout = "02-01-2006"

// Row is one dataset record. Field order follows the CSV header.
type Row struct {
	PostID          string `parquet:"post_id,snappy"`
	PostDate        string `parquet:"post_date,snappy"`
	Platform        string `parquet:"platform,snappy,dict"`
	Hashtag         string `parquet:"hashtag,snappy,dict"`
	ContentType     string `parquet:"content_type,snappy,dict"`
	Region          string `parquet:"region,snappy,dict"`
	Views           int64  `parquet:"views,snappy"`
	Likes           int64  `parquet:"likes,snappy"`
	Shares          int64  `parquet:"shares,snappy"`
	Comments        int64  `parquet:"comments,snappy"`
	EngagementLevel string `parquet:"engagement_level,snappy,dict"`
}

// Post converts the row into a domain post
func (r Row) Post() (trend.Post, error) {
	date, err := time.Parse(PostDateLayout, strings.TrimSpace(r.PostDate))
	if err != nil {
		return trend.Post{}, fmt.Errorf("post %s: invalid Post_Date %q: %w", r.PostID, r.PostDate, err)
	}

	return trend.Post{
		ID:       r.PostID,
		Date:     date,
		Platform: strings.TrimSpace(r.Platform),
		Hashtag:  strings.TrimSpace(r.Hashtag),
		Views:    r.Views,
		Likes:    r.Likes,
		Shares:   r.Shares,
		Comments: r.Comments,
	}, nil
}
