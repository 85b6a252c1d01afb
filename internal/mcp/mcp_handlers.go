package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/data-drift/drift/core"
	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/driftapi"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	mgr       contract.CacheManager
	newClient func(cfg *contract.Config) contract.ReportsClient
}

// configFor applies the optional installation override of a request.
func (h *toolHandler) configFor(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if id := strings.TrimSpace(request.GetString("installation_id", "")); id != "" {
		cfg.InstallationID = id
	}
	return cfg
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyPeriod(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := request.GetString("label", "")
	if strings.TrimSpace(label) == "" {
		return mcp.NewToolResultError("label is required"), nil
	}
	info := core.DescribePeriod(label)
	if !info.Valid {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %q", core.ErrInvalidPeriodFormat, label)), nil
	}
	return jsonResult(info)
}

func (h *toolHandler) handleGetWaterfall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	req, err := core.ValidateWaterfallParams(core.WaterfallParams{
		InstallationID: cfg.InstallationID,
		MetricName:     request.GetString("metric", ""),
		TimegrainValue: request.GetString("period", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid waterfall parameters: %v", err)), nil
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	var excluded []string
	result, err := core.LoadWaterfall(ctx, h.newClient(cfg), req,
		core.WithLocation(loc),
		core.WithWarnFunc(func(commitID string, _ error) { excluded = append(excluded, commitID) }),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("waterfall failed: %v", err)), nil
	}
	if len(excluded) > 0 {
		contract.LogWarn("Excluded commits from the series", fmt.Errorf("%w: %s", core.ErrInvalidKPI, strings.Join(excluded, ", ")))
	}
	return jsonResult(result)
}

func (h *toolHandler) handleListReportPeriods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	metric := strings.TrimSpace(request.GetString("metric", ""))
	if metric == "" || cfg.InstallationID == "" {
		return mcp.NewToolResultError(fmt.Sprintf("%v: installation_id and metric are required", core.ErrMissingParams)), nil
	}

	report, err := h.newClient(cfg).GetMetricReport(ctx, metric)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(core.SummarizeReport(report))
}

func (h *toolHandler) handleGetRepoConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	owner := strings.TrimSpace(request.GetString("owner", ""))
	repo := strings.TrimSpace(request.GetString("repo", ""))
	if owner == "" || repo == "" || cfg.InstallationID == "" {
		return mcp.NewToolResultError(fmt.Sprintf("%v: owner, repo and a configured installation are required", core.ErrMissingParams)), nil
	}

	var store contract.CacheStore
	if h.mgr != nil {
		store = h.mgr.GetConfigStore()
	}
	rc, err := driftapi.NewCachedConfigSource(h.newClient(cfg), store, cfg.CacheTTL).GetConfig(ctx, owner, repo)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("config failed: %v", err)), nil
	}
	return jsonResult(rc)
}
