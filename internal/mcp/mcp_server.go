// Package mcp exposes trend decline analysis as Model Context Protocol tools.
package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/dataset"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/insight"
)

// Reporter runs a full trend report
type Reporter interface {
	Run(ctx context.Context, q trend.Query) (insight.Report, error)
}

// Catalog lists the trends available in the dataset
type Catalog interface {
	Trends(limit int) ([]dataset.Summary, error)
}

// NewMCPServer initializes and configures the MCP server without starting it.
// catalog may be nil, in which case list_trends is not registered.
func NewMCPServer(reporter Reporter, catalog Catalog, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.Default()
	}

	s := server.NewMCPServer(
		"Trend Decline Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		reporter: reporter,
		catalog:  catalog,
		logger:   logger.With("component", "mcp"),
	}

	s.AddTool(mcp.NewTool("analyze_trend",
		mcp.WithDescription("Analyze whether a hashtag or keyword is growing, plateauing or declining on a platform."),
		mcp.WithString("keyword", mcp.Description("Hashtag or keyword, e.g. '#Gaming'."), mcp.Required()),
		mcp.WithString("platform", mcp.Description("Social platform."), mcp.Required(), mcp.Enum(trend.Platforms...)),
		mcp.WithString("start_date", mcp.Description("First day of the window (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("Last day of the window (YYYY-MM-DD)."), mcp.Required()),
	), h.handleAnalyzeTrend)

	s.AddTool(mcp.NewTool("list_platforms",
		mcp.WithDescription("List the platforms trends can be analyzed on."),
	), h.handleListPlatforms)

	if catalog != nil {
		s.AddTool(mcp.NewTool("list_trends",
			mcp.WithDescription("List the most engaged hashtag/platform pairs in the dataset."),
			mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
		), h.handleListTrends)
	}

	return s
}

// StartMCPServer serves the MCP tools over stdio.
func StartMCPServer(_ context.Context, reporter Reporter, catalog Catalog, logger *slog.Logger) error {
	s := NewMCPServer(reporter, catalog, logger)
	return server.ServeStdio(s)
}
