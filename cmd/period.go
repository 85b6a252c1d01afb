package cmd

import (
	"github.com/data-drift/drift/core"
	"github.com/data-drift/drift/internal/contract"
	"github.com/spf13/cobra"
)

// periodCmd classifies period labels.
var periodCmd = &cobra.Command{
	Use:   "period [label]...",
	Short: "Classify period labels and show their calendar bounds.",
	Long: `Classify each label into a time grain and print the UTC interval it covers.

Accepted labels:
  2024        year
  2024-Q1     quarter (Q1 to Q4)
  2024-03     month
  2024-W09    ISO week (W1 to W53, must exist in that year)
  2024-03-01  day

Labels are taken verbatim, so surrounding whitespace makes a label invalid.
The command fails when any label is invalid, after printing all of them.

Without labels, --at prints the period of every grain containing that date.

Examples:
  drift period 2024-Q1 2024-W53 2024-02-29
  drift period 2024-13 --output json
  drift period --at 2024-12-30`,
	Args: cobra.ArbitraryArgs,
	PreRunE: withSetup(func(in *contract.ConfigRawInput, args []string) {
		in.LabelArgs = args
	}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePeriod(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot classify periods", err)
		}
	},
}
