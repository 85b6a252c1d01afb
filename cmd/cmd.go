// Package cmd defines the command-line interface for drift.
package cmd

import (
	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(waterfallCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(cohortsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(commitsCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cachePruneCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("api-url", contract.DefaultAPIURL, "Base URL of the data-drift backend")
	rootCmd.PersistentFlags().String("installation-id", "", "Backend installation ID (prefer DRIFT_INSTALLATION_ID)")
	rootCmd.PersistentFlags().String("timeout", "", "HTTP timeout for backend calls (e.g., 10s)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored drift direction in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("timezone", "", "IANA time zone of bar labels and dates (default: local)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for the cache (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL, "Age after which cached configs are refetched (e.g., '12 hours', 'never')")
	rootCmd.PersistentFlags().String("history-backend", "", "History tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for history tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// The report file flag is shared by waterfallCmd and reportCmd, so withSetup binds it per run
	waterfallCmd.Flags().String("report-file", "", "Read the metric report from a JSON file written by collect")
	reportCmd.Flags().String("report-file", "", "Read the metric report from a JSON file written by collect")

	// withSetup binds the period flags per run
	periodCmd.Flags().String("at", "", "Date whose enclosing periods are printed when no label is given")

	// Bind all flags of collectCmd to Viper
	collectCmd.Flags().String("file", "", "Path of the CSV metric file in the repository")
	collectCmd.Flags().String("repo-path", "", "Read history from this local clone instead of GitHub")
	collectCmd.Flags().String("date-column", "", "Column holding the period label of each row")
	collectCmd.Flags().String("kpi-column", "", "Column summed into the KPI of each period")
	collectCmd.Flags().String("metric", "", "Name of the metric (informational)")
	collectCmd.Flags().String("start", "", "Start date in ISO8601, YYYY-MM-DD or time ago")
	collectCmd.Flags().String("end", "", "End date in ISO8601, YYYY-MM-DD or time ago")
	collectCmd.Flags().String("github-token", "", "GitHub token (prefer DRIFT_GITHUB_TOKEN)")
	if err := viper.BindPFlags(collectCmd.Flags()); err != nil {
		contract.LogFatal("Error binding collect flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
