package trend

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Post is one row of social activity for a hashtag on a platform
type Post struct {
	ID       string
	Date     time.Time
	Platform string
	Hashtag  string
	Views    int64
	Likes    int64
	Shares   int64
	Comments int64
}

// DailyMetrics holds the summed activity of one calendar day
type DailyMetrics struct {
	Day      time.Time
	Views    int64
	Likes    int64
	Shares   int64
	Comments int64
	Posts    int
}

// EngagementScore weights the daily interactions into a single number.
// Likes count once, comments three times, shares five times and views
// contribute one percent.
func (d DailyMetrics) EngagementScore() int {
	score := float64(d.Likes) +
		float64(d.Comments)*3 +
		float64(d.Shares)*5 +
		float64(d.Views)*0.01
	return int(score)
}

// NormalizeKeyword strips hashtag markers and lowercases the keyword
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(keyword), "#", ""))
}

// Matches reports whether the post belongs to the query
func (q Query) Matches(p Post) bool {
	if !strings.Contains(strings.ToLower(p.Hashtag), NormalizeKeyword(q.Keyword)) {
		return false
	}
	if !strings.EqualFold(p.Platform, strings.TrimSpace(q.Platform)) {
		return false
	}
	day := truncateDay(p.Date)
	return !day.Before(truncateDay(q.StartDate)) && !day.After(truncateDay(q.EndDate))
}

// AggregateDaily groups posts by calendar day, ordered by day
func AggregateDaily(posts []Post) []DailyMetrics {
	byDay := make(map[time.Time]*DailyMetrics)
	for _, p := range posts {
		day := truncateDay(p.Date)
		d, ok := byDay[day]
		if !ok {
			d = &DailyMetrics{Day: day}
			byDay[day] = d
		}
		d.Views += p.Views
		d.Likes += p.Likes
		d.Shares += p.Shares
		d.Comments += p.Comments
		d.Posts++
	}

	days := make([]DailyMetrics, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day.Before(days[j].Day)
	})
	return days
}

// SeriesFromDaily builds a lifecycle series with ordinal day labels
func SeriesFromDaily(days []DailyMetrics) LifecycleSeries {
	dates := make([]string, len(days))
	engagement := make([]int, len(days))
	posts := make([]int, len(days))
	for i, d := range days {
		dates[i] = DayLabel(i)
		engagement[i] = d.EngagementScore()
		posts[i] = d.Posts
	}
	return NewLifecycleSeries(dates, engagement, posts)
}

// DayLabel returns the ordinal label for a zero-based day index
func DayLabel(i int) string {
	return fmt.Sprintf("Day %d", i+1)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
