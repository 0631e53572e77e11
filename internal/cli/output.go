package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/dataset"
	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/storage"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/insight"
)

const (
	defaultWidth = 80
	minWidth     = 40
	maxWidth     = 120
)

var (
	criticalColor = color.New(color.FgRed, color.Bold)    // Critical Decline: Red and Bold
	earlyColor    = color.New(color.FgYellow, color.Bold) // Early Decline: Yellow and Bold
	plateauColor  = color.New(color.FgCyan)               // Plateauing: Cyan
	growingColor  = color.New(color.FgGreen)              // Growing: Green
	mutedColor    = color.New(color.FgHiBlack)
)

func statusColor(s trend.Status) *color.Color {
	switch s {
	case trend.StatusCriticalDecline:
		return criticalColor
	case trend.StatusEarlyDecline:
		return earlyColor
	case trend.StatusPlateauing:
		return plateauColor
	default:
		return growingColor
	}
}

// terminalWidth returns the stdout width clamped to a readable range
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return max(minWidth, min(width, maxWidth))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}

// wrap breaks text into lines no longer than width
func wrap(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// printReport prints the classification, signals, drivers and insight of a report.
func printReport(w io.Writer, report insight.Report, width int) error {
	res := report.Result
	q := res.Query

	fmt.Fprintf(w, "🧠 %s on %s (%s → %s)\n",
		q.Keyword, q.Platform, q.StartDate.Format(trend.DateLayout), q.EndDate.Format(trend.DateLayout))
	fmt.Fprintf(w, "📈 Status: %s  Confidence: %s  Decline in: %s\n",
		statusColor(res.Classification.Status).Sprint(res.Classification.Status),
		formatFloat(res.Classification.Confidence),
		res.Classification.DeclineTime,
	)
	if res.DataSource == trend.DataSourceSimulated {
		fmt.Fprintln(w, mutedColor.Sprint("⚠️  No matching data found, showing a simulated lifecycle."))
	}
	fmt.Fprintln(w)

	s := res.Signals
	signals := tablewriter.NewWriter(w)
	signals.Header([]string{"Signal", "Value"})
	signals.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight}
	})
	if err := signals.Bulk([][]string{
		{"Engagement drop", strconv.Itoa(s.EngagementDropPct) + "%"},
		{"Engagement velocity", formatFloat(s.EngagementVelocity)},
		{"Post frequency decline", strconv.Itoa(s.PostFreqDeclinePct) + "%"},
		{"Sentiment", formatFloat(s.SentimentScore)},
		{"Influencer activity", formatPercent(s.InfluencerActivityRatio)},
		{"Content saturation", formatFloat(s.ContentSaturationScore)},
	}); err != nil {
		return err
	}
	if err := signals.Render(); err != nil {
		return err
	}

	drivers := tablewriter.NewWriter(w)
	drivers.Header([]string{"Driver", "Weight"})
	drivers.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight}
	})
	var data [][]string
	for _, f := range res.Importance.Ranked() {
		data = append(data, []string{f.Name, formatPercent(f.Weight)})
	}
	if err := drivers.Bulk(data); err != nil {
		return err
	}
	if err := drivers.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, line := range wrap(res.Reasoning, width) {
		fmt.Fprintln(w, line)
	}
	if report.Insight != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "💡 Insight")
		for _, line := range wrap(report.Insight, width) {
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// printTrends prints dataset trends in a ranked table.
func printTrends(w io.Writer, trends []dataset.Summary) error {
	if len(trends) == 0 {
		_, err := fmt.Fprintln(w, "⚠️  No trends found in the dataset.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Hashtag", "Platform", "Posts"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignRight, tw.AlignLeft, tw.AlignLeft, tw.AlignRight}
	})

	var data [][]string
	for i, t := range trends {
		data = append(data, []string{strconv.Itoa(i + 1), t.Hashtag, t.Platform, strconv.Itoa(t.TotalPosts)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// printHistory prints stored analyses, newest first.
func printHistory(w io.Writer, records []storage.AnalysisRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "⚠️  No analyses recorded yet.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Analyzed", "Keyword", "Platform", "Status", "Confidence", "Source"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			r.AnalyzedAt.UTC().Format("2006-01-02 15:04"),
			r.Keyword,
			r.Platform,
			statusColor(r.Status).Sprint(r.Status),
			formatFloat(r.Confidence),
			string(r.DataSource),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
