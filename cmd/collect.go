package cmd

import (
	"github.com/data-drift/drift/core"
	"github.com/data-drift/drift/internal/contract"
	"github.com/spf13/cobra"
)

// collectCmd rebuilds a metric report from GitHub history.
var collectCmd = &cobra.Command{
	Use:   "collect [owner/repo]",
	Short: "Rebuild a metric report from the history of a CSV file.",
	Long: `Read every version of a CSV metric file committed to GitHub and rebuild the
metric report the waterfall command works on.

Rows are grouped by --date-column, whose values must be period labels.
For each period and commit the report holds the row count and the sum of
--kpi-column. Commits that cannot be read are skipped with a warning.

With --repo-path the history is read from a local clone with git instead.

The report is written as JSON to --output-file or stdout.

Examples:
  DRIFT_GITHUB_TOKEN=... drift collect acme/warehouse \
    --file metrics/revenue.csv --date-column month --kpi-column amount \
    --start "6 months ago" --output-file revenue.json

  drift waterfall revenue 2024-01 --report-file revenue.json

  # From a local clone
  drift collect --repo-path ~/src/warehouse --file metrics/revenue.csv \
    --date-column month --kpi-column amount`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: withSetup(func(in *contract.ConfigRawInput, args []string) {
		in.RepoArg = ""
		if len(args) == 1 {
			in.RepoArg = args[0]
		}
	}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCollect(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot collect history", err)
		}
	},
}
