package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/maithilyrajpure/trend-decline-gen/internal/adapter/dataset"
	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
	"github.com/maithilyrajpure/trend-decline-gen/internal/service/insight"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	reporter Reporter
	catalog  Catalog
	logger   *slog.Logger
}

func (h *toolHandler) handleAnalyzeTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := trend.ParseQuery(
		request.GetString("keyword", ""),
		request.GetString("platform", ""),
		request.GetString("start_date", ""),
		request.GetString("end_date", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, err := h.reporter.Run(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "analysis failed", "keyword", q.Keyword, "platform", q.Platform, "error", err)
		return mcp.NewToolResultError("analysis failed"), nil
	}

	jsonData, _ := json.MarshalIndent(insight.NewResponse(report), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListPlatforms(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(map[string][]string{"platforms": trend.Platforms}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListTrends(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := dataset.DefaultTrendsLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = l
	}

	trends, err := h.catalog.Trends(limit)
	switch {
	case errors.Is(err, trend.ErrNoData):
		trends = []dataset.Summary{}
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("listing trends failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(trends, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
