package cmd

import (
	"github.com/data-drift/drift/core"
	"github.com/data-drift/drift/internal/contract"
	"github.com/spf13/cobra"
)

// waterfallCmd builds the drift waterfall of one period.
var waterfallCmd = &cobra.Command{
	Use:   "waterfall <metric> <period>",
	Short: "Show how a metric drifted after a period closed.",
	Long: `Build the drift waterfall of a metric for one reporting period.

The first bar is the value at the first commit after the period ended.
Every following bar is a later commit that changed the value. Commits that
leave the value unchanged are skipped and commits with an unreadable KPI are
excluded with a warning.

The report is fetched from the backend, or read from a file produced by
'drift collect' when --report-file is given. When history tracking is enabled
every run is recorded.

Examples:
  # Drift of January revenue
  drift waterfall revenue 2024-01

  # Offline, from a collected report
  drift waterfall revenue 2024-Q1 --report-file revenue.json

  # Export the bars for a notebook
  drift waterfall revenue 2024-01 --output parquet --output-file drift.parquet`,
	Args: cobra.ExactArgs(2),
	PreRunE: withSetup(func(in *contract.ConfigRawInput, args []string) {
		in.MetricArg, in.PeriodArg = args[0], args[1]
	}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWaterfall(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build waterfall", err)
		}
	},
}
