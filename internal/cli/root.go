// Package cli implements the trendctl command-line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/maithilyrajpure/trend-decline-gen/internal/app"
	"github.com/maithilyrajpure/trend-decline-gen/internal/config"
)

// Set by the linker at build time.
var version = "dev"

// NewRootCmd returns the trendctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:                "trendctl",
		Short:              "Detect whether social media trends are growing or declining.",
		Long:               `trendctl scores a hashtag's engagement lifecycle, classifies its decline stage and explains the drivers.`,
		Version:            version,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	root.AddCommand(
		newAnalyzeCmd(),
		newPlatformsCmd(),
		newTrendsCmd(),
		newHistoryCmd(),
		newImportCmd(),
		newExportCmd(),
		newCheckTwitterCmd(),
		newMCPCmd(),
	)

	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// withApp loads configuration, builds the services and hands them to fn.
// Logs go to stderr so stdout stays clean for results and MCP traffic.
func withApp(cmd *cobra.Command, fn func(*app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := app.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.Environment)

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
