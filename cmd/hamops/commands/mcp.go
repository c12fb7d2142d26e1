package commands

import (
	"github.com/spf13/cobra"

	"github.com/kf7lze/hamops/bandplan"
	"github.com/kf7lze/hamops/config"
	"github.com/kf7lze/hamops/errors"
	"github.com/kf7lze/hamops/logger"
	"github.com/kf7lze/hamops/mcptools"
)

// McpCmd starts the MCP server on stdio
var McpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Expose hamops as Model Context Protocol tools over stdio so LLM
assistants can query the band plan, look up callsigns and check
propagation. Intended to be launched by an MCP client, not by hand.`,
	RunE: runMcp,
}

func runMcp(cmd *cobra.Command, args []string) error {
	// stdout carries the MCP protocol, so logs must go elsewhere.
	// The JSON logger writes to stderr.
	if err := logger.Initialize(true); err != nil {
		return errors.Wrap(err, "initializing logger")
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	plan := bandplan.Load(cfg.Bandplan.Path)

	return mcptools.NewMCPServer(cfg, plan).Serve()
}
