package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
	"github.com/shopspring/decimal"
)

// CollectOptions describes which file and columns to read history from.
type CollectOptions struct {
	Path       string
	DateColumn string
	KPIColumn  string
	Since      time.Time
	Until      time.Time

	// Warn receives the problems that cause a commit, row or cell to be skipped
	Warn func(msg string, err error)
}

// periodAggregate is the value of one period at one commit.
type periodAggregate struct {
	lines int
	kpi   decimal.Decimal
}

// CollectMetricReport rebuilds a metric report from the history of a CSV file.
//
// Every commit touching the file in the window is read. Rows are grouped by
// the date column, which must hold a period label. For each period the commit
// gets a record with the row count and the sum of the KPI column.
func CollectMetricReport(ctx context.Context, src contract.SnapshotSource, opts CollectOptions) (schema.MetricReport, error) {
	var missing []string
	if opts.Path == "" {
		missing = append(missing, "file")
	}
	if opts.DateColumn == "" {
		missing = append(missing, "date-column")
	}
	if opts.KPIColumn == "" {
		missing = append(missing, "kpi-column")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingParams, strings.Join(missing, ", "))
	}
	warn := opts.Warn
	if warn == nil {
		warn = func(string, error) {}
	}

	commits, err := src.ListCommits(ctx, opts.Path, opts.Since, opts.Until)
	if err != nil {
		return nil, err
	}

	report := schema.MetricReport{}
	invalidLabels := map[string]bool{}
	for _, commit := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := src.GetFileAtCommit(ctx, opts.Path, commit.SHA)
		if err != nil {
			warn(fmt.Sprintf("Skipping commit %s", commit.SHA), err)
			continue
		}
		aggregates, err := aggregateSnapshot(content, opts, invalidLabels, warn)
		if err != nil {
			warn(fmt.Sprintf("Skipping commit %s", commit.SHA), err)
			continue
		}

		for label, agg := range aggregates {
			period, _ := ParsePeriod(label) // labels are validated by aggregateSnapshot
			pr := report[label]
			if pr == nil {
				pr = &schema.PeriodReport{
					TimeGrain: period.Grain(),
					Period:    label,
					History:   map[string]schema.CommitRecord{},
				}
				report[label] = pr
			}
			_, end := period.Bounds()
			pr.History[commit.SHA] = schema.CommitRecord{
				Lines:           agg.lines,
				KPI:             agg.kpi.String(),
				CommitTimestamp: commit.Date.Unix(),
				CommitDate:      commit.Date.UTC().Format(time.RFC3339),
				IsAfterPeriod:   !commit.Date.Before(end),
				CommitURL:       commit.URL,
			}
		}
	}
	return report, nil
}

// aggregateSnapshot groups the rows of one CSV snapshot by period label.
func aggregateSnapshot(content []byte, opts CollectOptions, invalidLabels map[string]bool, warn func(string, error)) (map[string]*periodAggregate, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	dateIdx, kpiIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case opts.DateColumn:
			dateIdx = i
		case opts.KPIColumn:
			kpiIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("date column %q not found", opts.DateColumn)
	}
	if kpiIdx < 0 {
		return nil, fmt.Errorf("KPI column %q not found", opts.KPIColumn)
	}

	aggregates := map[string]*periodAggregate{}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		if dateIdx >= len(row) {
			continue
		}

		label := strings.TrimSpace(row[dateIdx])
		if !IsValidPeriodLabel(label) {
			if !invalidLabels[label] {
				invalidLabels[label] = true
				warn(fmt.Sprintf("Skipping rows dated %q", label), ErrInvalidPeriodFormat)
			}
			continue
		}

		agg := aggregates[label]
		if agg == nil {
			agg = &periodAggregate{}
			aggregates[label] = agg
		}
		agg.lines++

		if kpiIdx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[kpiIdx])
		if cell == "" {
			continue
		}
		value, err := decimal.NewFromString(cell)
		if err != nil {
			warn(fmt.Sprintf("Ignoring KPI value of a row dated %s", label), fmt.Errorf("%w: %q", ErrInvalidKPI, cell))
			continue
		}
		agg.kpi = agg.kpi.Add(value)
	}
	return aggregates, nil
}

// ExecuteCollect rebuilds a metric report from a GitHub repository and writes it as JSON.
func ExecuteCollect(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	origin := cfg.CollectRepoPath
	if origin == "" {
		if cfg.Owner == "" || cfg.Repo == "" {
			return fmt.Errorf("%w: repository or --repo-path", ErrMissingParams)
		}
		origin = cfg.Owner + "/" + cfg.Repo
	}

	_, _ = fmt.Fprintf(os.Stderr, "🔎 Collecting %s:%s from %s to %s\n", origin, cfg.CollectFile,
		cfg.CollectStart.Format(time.DateOnly), cfg.CollectEnd.Format(time.DateOnly))

	report, err := CollectMetricReport(ctx, newSnapshotSource(ctx, cfg), CollectOptions{
		Path:       cfg.CollectFile,
		DateColumn: cfg.CollectDateColumn,
		KPIColumn:  cfg.CollectKPIColumn,
		Since:      cfg.CollectStart,
		Until:      cfg.CollectEnd,
		Warn:       contract.LogWarn,
	})
	if err != nil {
		return err
	}

	return out.WriteMetricReport(report, cfg)
}
