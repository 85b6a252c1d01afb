package core

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/driftapi"
	"github.com/data-drift/drift/schema"
)

// SummarizeReport lists the periods of a report, coarsest grain first.
func SummarizeReport(report schema.MetricReport) []schema.PeriodSummary {
	summaries := make([]schema.PeriodSummary, 0, len(report))
	for label, pr := range report {
		s := schema.PeriodSummary{Period: label}
		if pr == nil {
			s.Missing = true
			if grain, err := ClassifyPeriod(label); err == nil {
				s.TimeGrain = grain
			}
			summaries = append(summaries, s)
			continue
		}
		s.TimeGrain = pr.TimeGrain
		if s.TimeGrain == "" {
			s.TimeGrain, _ = ClassifyPeriod(label)
		}
		s.Dimension = pr.Dimension
		s.DimensionValue = pr.DimensionValue
		s.Commits = len(pr.History)
		for _, rec := range pr.History {
			if rec.IsAfterPeriod {
				s.AfterPeriod++
			}
		}
		summaries = append(summaries, s)
	}

	slices.SortFunc(summaries, func(a, b schema.PeriodSummary) int {
		return cmp.Or(
			cmp.Compare(grainRank(a.TimeGrain), grainRank(b.TimeGrain)),
			cmp.Compare(a.Period, b.Period),
		)
	})
	return summaries
}

// grainRank orders unknown grains last.
func grainRank(g schema.TimeGrain) int {
	if i := schema.GrainOrder(g); i >= 0 {
		return i
	}
	return len(schema.AllTimeGrains)
}

// DescribePeriod classifies a label and resolves its calendar bounds.
func DescribePeriod(label string) schema.PeriodInfo {
	info := schema.PeriodInfo{Label: label}
	period, err := ParsePeriod(label)
	if err != nil {
		return info
	}
	info.Valid = true
	info.TimeGrain = period.Grain()
	info.Start, info.End = period.Bounds()
	return info
}

// ExecutePeriod classifies the given labels and prints them.
// Without labels it prints the period of every grain containing cfg.PeriodAt.
// It fails after printing when any label is invalid.
func ExecutePeriod(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	labels := cfg.Labels
	if len(labels) == 0 && !cfg.PeriodAt.IsZero() {
		for _, grain := range schema.AllTimeGrains {
			period, err := PeriodOf(cfg.PeriodAt, grain)
			if err != nil {
				return err
			}
			labels = append(labels, period.Label())
		}
	}
	if len(labels) == 0 {
		return fmt.Errorf("%w: label", ErrMissingParams)
	}
	infos := make([]schema.PeriodInfo, 0, len(labels))
	invalid := 0
	for _, label := range labels {
		info := DescribePeriod(label)
		if !info.Valid {
			invalid++
		}
		infos = append(infos, info)
	}
	if err := out.WritePeriods(infos, cfg); err != nil {
		return err
	}
	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d labels", ErrInvalidPeriodFormat, invalid, len(infos))
	}
	return nil
}

// ExecuteReport prints the period summaries of a metric report.
func ExecuteReport(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	if cfg.MetricName == "" {
		return fmt.Errorf("%w: metricName", ErrMissingParams)
	}

	var report schema.MetricReport
	var err error
	if cfg.ReportFile != "" {
		report, err = ReadReportFile(cfg.ReportFile)
	} else {
		if cfg.InstallationID == "" {
			return fmt.Errorf("%w: installationId", ErrMissingParams)
		}
		report, err = newReportsClient(cfg).GetMetricReport(ctx, cfg.MetricName)
	}
	if err != nil {
		return err
	}
	return out.WritePeriodReports(cfg.MetricName, SummarizeReport(report), cfg)
}

// ExecuteCohorts prints the cohort results of a metric for a time grain.
func ExecuteCohorts(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	if cfg.InstallationID == "" || cfg.MetricName == "" || cfg.TimeGrain == "" {
		return fmt.Errorf("%w: installationId, metricName, timegrain", ErrMissingParams)
	}
	raw, err := newReportsClient(cfg).GetMetricCohorts(ctx, cfg.MetricName, cfg.TimeGrain)
	if err != nil {
		return err
	}
	return out.WriteRawJSON(raw, cfg)
}

// ExecuteRepoConfig prints the data-drift configuration of a repository.
// Configurations are served from the config cache while fresh.
func ExecuteRepoConfig(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.InstallationID == "" || cfg.Owner == "" || cfg.Repo == "" {
		return fmt.Errorf("%w: installationId, repository", ErrMissingParams)
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetConfigStore()
	}
	source := driftapi.NewCachedConfigSource(newReportsClient(cfg), store, cfg.CacheTTL)
	rc, err := source.GetConfig(ctx, cfg.Owner, cfg.Repo)
	if err != nil {
		return err
	}
	return out.WriteRepoConfig(cfg.Owner+"/"+cfg.Repo, rc, cfg)
}

// ExecuteCommit prints the diff metadata of one commit.
func ExecuteCommit(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	if cfg.InstallationID == "" || cfg.Owner == "" || cfg.Repo == "" || cfg.CommitSHA == "" {
		return fmt.Errorf("%w: installationId, repository, sha", ErrMissingParams)
	}
	patch, err := newReportsClient(cfg).GetPatchAndHeader(ctx, cfg.Owner, cfg.Repo, cfg.CommitSHA)
	if err != nil {
		return err
	}
	return out.WritePatch(patch, cfg)
}

// ExecuteCommits prints the upstream commits of a repository.
func ExecuteCommits(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	if cfg.InstallationID == "" || cfg.Owner == "" || cfg.Repo == "" {
		return fmt.Errorf("%w: installationId, repository", ErrMissingParams)
	}
	raw, err := newReportsClient(cfg).GetCommitList(ctx, cfg.Owner, cfg.Repo)
	if err != nil {
		return err
	}
	commits, err := driftapi.ParseCommitList(raw)
	if err != nil {
		return err
	}
	slices.SortStableFunc(commits, func(a, b schema.CommitSummary) int {
		return b.Date.Compare(a.Date)
	})
	return out.WriteCommitList(commits, cfg)
}
