package cmd

import (
	"github.com/data-drift/drift/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the drift MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents classify periods, build waterfalls and read reports via standard tools.`,
	PreRunE: withSetup(nil),
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
