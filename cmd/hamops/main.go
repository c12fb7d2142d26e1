package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kf7lze/hamops/cmd/hamops/commands"
	"github.com/kf7lze/hamops/logger"
)

var rootCmd = &cobra.Command{
	Use:   "hamops",
	Short: "hamops - Amateur radio operations toolkit",
	Long: `hamops - Band plan queries, callsign lookups, APRS and propagation data.

Available commands:
  serve    - Start the hamops REST API server
  mcp      - Start the MCP server on stdio for LLM assistants
  bandplan - Query or regenerate the US band plan
  version  - Show version information

Examples:
  hamops serve                       # Start the REST API
  hamops bandplan info 14.230        # What's allowed at 14.230 MHz
  hamops bandplan search --mode CW   # Find all CW segments
  hamops bandplan generate           # Regenerate data/us_bandplan.json`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		verbosity, _ := cmd.Flags().GetCount("verbose")
		return logger.SetVerbosity(verbosity)
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON instead of console output")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.McpCmd)
	rootCmd.AddCommand(commands.BandplanCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
