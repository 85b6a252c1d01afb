package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
)

var (
	// ErrMissingParams is returned when a required parameter is empty.
	ErrMissingParams = errors.New("missing required parameters")

	// ErrReportNotFound is returned when a metric has no report for a period.
	ErrReportNotFound = errors.New("report not found")
)

// WaterfallParams are the raw route parameters of a waterfall view.
type WaterfallParams struct {
	InstallationID string
	MetricName     string
	TimegrainValue string
}

// WaterfallRequest is a validated WaterfallParams.
type WaterfallRequest struct {
	InstallationID string
	MetricName     string
	Period         Period
}

// ValidateWaterfallParams checks the parameters before any I/O happens.
func ValidateWaterfallParams(params WaterfallParams) (WaterfallRequest, error) {
	var missing []string
	if strings.TrimSpace(params.InstallationID) == "" {
		missing = append(missing, "installationId")
	}
	if strings.TrimSpace(params.MetricName) == "" {
		missing = append(missing, "metricName")
	}
	if strings.TrimSpace(params.TimegrainValue) == "" {
		missing = append(missing, "timegrainValue")
	}
	if len(missing) > 0 {
		return WaterfallRequest{}, fmt.Errorf("%w: %s", ErrMissingParams, strings.Join(missing, ", "))
	}

	period, err := ParsePeriod(params.TimegrainValue)
	if err != nil {
		return WaterfallRequest{}, err
	}
	return WaterfallRequest{
		InstallationID: strings.TrimSpace(params.InstallationID),
		MetricName:     strings.TrimSpace(params.MetricName),
		Period:         period,
	}, nil
}

// LoadWaterfall fetches the report of a metric and builds the series of the requested period.
// Transport errors are returned unchanged.
func LoadWaterfall(ctx context.Context, client contract.ReportsClient, req WaterfallRequest, opts ...BuildOption) (schema.WaterfallResult, error) {
	report, err := client.GetMetricReport(ctx, req.MetricName)
	if err != nil {
		return schema.WaterfallResult{}, err
	}
	return WaterfallFromReport(report, req.MetricName, req.Period, opts...)
}

// WaterfallFromReport builds the series of one period of an already loaded report.
func WaterfallFromReport(report schema.MetricReport, metricName string, period Period, opts ...BuildOption) (schema.WaterfallResult, error) {
	pr := report[period.Label()]
	if pr == nil {
		return schema.WaterfallResult{}, fmt.Errorf("%w: metric %q has no report for period %q", ErrReportNotFound, metricName, period.Label())
	}

	grain := pr.TimeGrain
	if grain == "" {
		grain = period.Grain()
	}
	return schema.WaterfallResult{
		MetricName:     metricName,
		Period:         period.Label(),
		TimeGrain:      grain,
		Dimension:      pr.Dimension,
		DimensionValue: pr.DimensionValue,
		Series:         BuildWaterfall(pr.History, opts...),
	}, nil
}

// ReadReportFile loads a metric report written by the collect command.
func ReadReportFile(path string) (schema.MetricReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	var report schema.MetricReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report file %s: %w", path, err)
	}
	return report, nil
}

// commandBuildOptions returns the series options for a command.
func commandBuildOptions(cfg *contract.Config) []BuildOption {
	return []BuildOption{
		WithLocation(cfg.Location),
		WithWarnFunc(func(commitID string, err error) {
			contract.LogWarn(fmt.Sprintf("Excluding commit %s from the series", commitID), err)
		}),
	}
}

// ExecuteWaterfall builds the drift series of a metric period and prints it.
// The report comes from the backend, or from --report-file when set.
func ExecuteWaterfall(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()

	var result schema.WaterfallResult
	if cfg.ReportFile != "" {
		if cfg.MetricName == "" || cfg.Period == "" {
			return fmt.Errorf("%w: metricName, timegrainValue", ErrMissingParams)
		}
		period, err := ParsePeriod(cfg.Period)
		if err != nil {
			return err
		}
		report, err := ReadReportFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		result, err = WaterfallFromReport(report, cfg.MetricName, period, commandBuildOptions(cfg)...)
		if err != nil {
			return err
		}
	} else {
		req, err := ValidateWaterfallParams(WaterfallParams{
			InstallationID: cfg.InstallationID,
			MetricName:     cfg.MetricName,
			TimegrainValue: cfg.Period,
		})
		if err != nil {
			return err
		}
		result, err = LoadWaterfall(ctx, newReportsClient(cfg), req, commandBuildOptions(cfg)...)
		if err != nil {
			return err
		}
	}

	recordWaterfall(mgr, start, result)
	return out.WriteWaterfall(result, cfg, time.Since(start))
}

// recordWaterfall stores the series in the history store when tracking is enabled.
func recordWaterfall(mgr contract.CacheManager, runTime time.Time, result schema.WaterfallResult) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}
	if _, err := store.RecordWaterfall(runTime, result); err != nil {
		contract.LogWarn("Failed to record drift history", err)
	}
}
