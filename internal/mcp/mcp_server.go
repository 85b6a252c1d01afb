// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/driftapi"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the drift MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	return newServer(&toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		newClient: func(cfg *contract.Config) contract.ReportsClient {
			return driftapi.NewClientFromConfig(cfg)
		},
	})
}

func newServer(h *toolHandler) *server.MCPServer {
	s := server.NewMCPServer(
		"Drift Waterfall Server",
		"1.0.0",
		server.WithLogging(),
	)

	// --- 1. Tool: classify_period ---
	s.AddTool(mcp.NewTool("classify_period",
		mcp.WithDescription("Classify a period label (2024, 2024-Q1, 2024-03, 2024-W09, 2024-03-01) and return its time grain and UTC bounds."),
		mcp.WithString("label", mcp.Description("The period label to classify."), mcp.Required()),
	), h.handleClassifyPeriod)

	// --- 2. Tool: get_waterfall ---
	s.AddTool(mcp.NewTool("get_waterfall",
		mcp.WithDescription("Build the drift waterfall of a metric for one period: the initial value followed by every change made after the period closed."),
		mcp.WithString("metric", mcp.Description("Name of the tracked metric."), mcp.Required()),
		mcp.WithString("period", mcp.Description("Period label of the report (e.g., '2024-01', '2024-Q1')."), mcp.Required()),
		mcp.WithString("installation_id", mcp.Description("Backend installation ID (defaults to the configured one).")),
	), h.handleGetWaterfall)

	// --- 3. Tool: list_report_periods ---
	s.AddTool(mcp.NewTool("list_report_periods",
		mcp.WithDescription("List the periods reported for a metric with their commit counts."),
		mcp.WithString("metric", mcp.Description("Name of the tracked metric."), mcp.Required()),
		mcp.WithString("installation_id", mcp.Description("Backend installation ID (defaults to the configured one).")),
	), h.handleListReportPeriods)

	// --- 4. Tool: get_repo_config ---
	s.AddTool(mcp.NewTool("get_repo_config",
		mcp.WithDescription("Get the data-drift configuration of a repository: its metric files and their upstream files."),
		mcp.WithString("owner", mcp.Description("Repository owner."), mcp.Required()),
		mcp.WithString("repo", mcp.Description("Repository name."), mcp.Required()),
	), h.handleGetRepoConfig)

	return s
}

// StartMCPServer starts the drift MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
