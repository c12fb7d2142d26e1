package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kf7lze/hamops/bandplan"
	"github.com/kf7lze/hamops/config"
	"github.com/kf7lze/hamops/errors"
	"github.com/kf7lze/hamops/internal/version"
	"github.com/kf7lze/hamops/server"
)

// ServeCmd starts the hamops REST API server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the hamops REST API server",
	Long:    `Launch the REST API: band plan queries, callsign lookups, APRS station data and propagation conditions.`,
	RunE:    runServe,
}

var (
	servePort     int
	serveDataPath string
)

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
	ServeCmd.Flags().StringVar(&serveDataPath, "data", "", "Band plan JSON path (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveDataPath != "" {
		cfg.Bandplan.Path = serveDataPath
	}

	plan := bandplan.Load(cfg.Bandplan.Path)

	srv, err := server.New(cfg, plan)
	if err != nil {
		return errors.Wrap(err, "creating server")
	}

	printServeBanner(cfg, plan)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	pterm.Success.Println("Server stopped cleanly")
	return nil
}

func printServeBanner(cfg *config.Config, plan *bandplan.Dataset) {
	info := version.Get()
	pterm.DefaultSection.Println("hamops")
	pterm.Info.Printf("Version:   %s (commit %s)\n", info.Version, info.Short())
	pterm.Info.Printf("Listening: http://localhost:%d\n", cfg.Server.Port)
	if plan.Available() {
		pterm.Info.Printf("Band plan: %d segments from %s\n", len(plan.Segments()), cfg.Bandplan.Path)
	} else {
		pterm.Warning.Printf("Band plan unavailable (%s) - run 'hamops bandplan generate'\n", cfg.Bandplan.Path)
	}
	if cfg.APRS.APIKey == "" {
		pterm.Warning.Println("No aprs.fi API key configured - APRS endpoints will return 503")
	}
	pterm.Info.Println("Press Ctrl+C to stop")
}
