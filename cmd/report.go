package cmd

import (
	"github.com/data-drift/drift/core"
	"github.com/data-drift/drift/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd summarizes the periods of a metric report.
var reportCmd = &cobra.Command{
	Use:   "report <metric>",
	Short: "List the reported periods of a metric.",
	Long: `Summarize every period of a metric report: its grain, dimension, number of
commits and how many of them landed after the period closed.

Examples:
  drift report revenue
  drift report revenue --report-file revenue.json --output csv`,
	Args: cobra.ExactArgs(1),
	PreRunE: withSetup(func(in *contract.ConfigRawInput, args []string) {
		in.MetricArg = args[0]
	}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot load report", err)
		}
	},
}

// cohortsCmd prints the cohort results of a metric.
var cohortsCmd = &cobra.Command{
	Use:   "cohorts <metric> <grain>",
	Short: "Print the cohort results of a metric for a time grain.",
	Long: `Fetch the cohort results of a metric from the backend and print them as JSON.

Grains: year, quarter, month, week, day.

Examples:
  drift cohorts revenue month`,
	Args: cobra.ExactArgs(2),
	PreRunE: withSetup(func(in *contract.ConfigRawInput, args []string) {
		in.MetricArg, in.GrainArg = args[0], args[1]
	}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCohorts(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot load cohorts", err)
		}
	},
}
