package cmd

import (
	"github.com/data-drift/drift/core"
	"github.com/data-drift/drift/internal/contract"
	"github.com/spf13/cobra"
)

// configCmd shows the data-drift configuration of a repository.
var configCmd = &cobra.Command{
	Use:   "config <owner/repo>",
	Short: "Show the metric files tracked in a repository.",
	Long: `Print the data-drift configuration of a repository: each metric file and the
upstream files it depends on.

Configurations are cached for --cache-ttl. Run 'drift cache clear' to refetch.

Examples:
  drift config acme/warehouse`,
	Args: cobra.ExactArgs(1),
	PreRunE: withSetup(func(in *contract.ConfigRawInput, args []string) {
		in.RepoArg = args[0]
	}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRepoConfig(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot load repository config", err)
		}
	},
}

// commitCmd shows the diff of one commit.
var commitCmd = &cobra.Command{
	Use:   "commit <owner/repo> <sha>",
	Short: "Show the diff metadata of a metric commit.",
	Long: `Print the patch, CSV headers and links of a commit that changed a metric file.

Examples:
  drift commit acme/warehouse 3f2a9c1`,
	Args: cobra.ExactArgs(2),
	PreRunE: withSetup(func(in *contract.ConfigRawInput, args []string) {
		in.RepoArg, in.SHAArg = args[0], args[1]
	}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCommit(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot load commit", err)
		}
	},
}

// commitsCmd lists upstream commits.
var commitsCmd = &cobra.Command{
	Use:   "commits <owner/repo>",
	Short: "List the upstream commits of a repository.",
	Long: `List the commits of the upstream files of a repository, newest first.

Examples:
  drift commits acme/warehouse --output csv`,
	Args: cobra.ExactArgs(1),
	PreRunE: withSetup(func(in *contract.ConfigRawInput, args []string) {
		in.RepoArg = args[0]
	}),
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCommits(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list commits", err)
		}
	},
}
