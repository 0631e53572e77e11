package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/dataset"
	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/social"
	"github.com/maithilyrajpure/trend-decline-gen/internal/app"
	"github.com/maithilyrajpure/trend-decline-gen/internal/config"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/mcp"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/insight"
)

func newAnalyzeCmd() *cobra.Command {
	var keyword, platform, start, end string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the decline stage of a trend",
		Example: `  trendctl analyze --keyword '#Gaming' --platform TikTok --start 2024-01-01 --end 2024-01-31
  trendctl analyze -k '#Gaming' -p TikTok -s 2024-01-01 -e 2024-01-31 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := trend.ParseQuery(keyword, platform, start, end)
			if err != nil {
				return err
			}

			return withApp(cmd, func(a *app.App) error {
				report, err := a.Reporter.Run(cmd.Context(), q)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), insight.NewResponse(report))
				}
				return printReport(cmd.OutOrStdout(), report, terminalWidth())
			})
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "hashtag or keyword to analyze")
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "social platform")
	cmd.Flags().StringVarP(&start, "start", "s", "", "first day of the window (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "last day of the window (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the API response body instead of a table")

	return cmd
}

func newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the supported platforms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range trend.Platforms {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newTrendsCmd() *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "List the most engaged hashtags in the dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				trends, err := a.Dataset.Trends(limit)
				if errors.Is(err, trend.ErrNoData) {
					trends = []dataset.Summary{}
				} else if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), trends)
				}
				return printTrends(cmd.OutOrStdout(), trends)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", dataset.DefaultTrendsLimit, "number of trends to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently stored analyses (requires Postgres)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				if err := a.RequireDatabase(); err != nil {
					return err
				}
				records, err := a.Analyses.RecentAnalyses(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printHistory(cmd.OutOrStdout(), records)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of analyses to show")

	return cmd
}

func newImportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load the dataset CSV into Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				if err := a.RequireDatabase(); err != nil {
					return err
				}

				src := a.Dataset
				if file != "" {
					src = dataset.NewProvider(file, a.Logger)
				}
				rows, err := src.Rows()
				if err != nil {
					return err
				}

				imported, skipped, err := a.Posts.Import(cmd.Context(), rows)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "💾 Imported %d posts from %s (%d skipped)\n", imported, src.Path(), skipped)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV or Parquet file to import (defaults to DATASET_PATH)")

	return cmd
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert the dataset to Parquet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			return withApp(cmd, func(a *app.App) error {
				n, err := a.Dataset.ExportParquet(out)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "💾 Wrote %d rows to %s\n", n, out)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Parquet output path")

	return cmd
}

func newCheckTwitterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-twitter",
		Short: "Verify the Twitter/X bearer token with a minimal search",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			token := cfg.Twitter.BearerToken
			preview := token
			if len(token) > 10 {
				preview = token[:10] + "..."
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🔎 Testing Twitter API with token: %s (length: %d)\n", preview, len(token))

			logger := app.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.Environment)
			n, err := social.NewTwitterProvider(token, cfg.Twitter.Host, nil, logger).Check(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✅ Token works, recent search returned %d tweets\n", n)
			return err
		},
	}
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the trend analysis MCP server",
		Long:  `Launch an MCP server on stdio that lets AI agents run trend decline analysis via standard tools.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				return mcp.StartMCPServer(cmd.Context(), a.Reporter, a.Dataset, a.Logger)
			})
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

