package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kf7lze/hamops/bandplan"
	"github.com/kf7lze/hamops/config"
	"github.com/kf7lze/hamops/errors"
	"github.com/kf7lze/hamops/internal/httpclient"
)

var (
	bandplanFormat string
	bandplanData   string

	searchMode    string
	searchBand    string
	searchLicense string
	searchUse     string
	searchMin     string
	searchMax     string

	generateURL    string
	generateOutput string
)

// BandplanCmd groups band plan query and maintenance subcommands
var BandplanCmd = &cobra.Command{
	Use:   "bandplan",
	Short: "Query or regenerate the US band plan",
	Long: `Query the US amateur radio band plan from the command line.

Examples:
  hamops bandplan info 14.230            # What's allowed at 14.230 MHz
  hamops bandplan range 7.0 7.3          # Segments overlapping 40m
  hamops bandplan search --mode CW       # All CW segments
  hamops bandplan search --band 20m --license Technician
  hamops bandplan summary                # Dataset overview
  hamops bandplan generate               # Refresh data/us_bandplan.json`,
}

var bandplanInfoCmd = &cobra.Command{
	Use:   "info FREQUENCY",
	Short: "Show what the band plan allows at a frequency",
	Args:  cobra.ExactArgs(1),
	RunE:  runBandplanInfo,
}

var bandplanRangeCmd = &cobra.Command{
	Use:   "range START END",
	Short: "List segments overlapping a frequency range",
	Args:  cobra.ExactArgs(2),
	RunE:  runBandplanRange,
}

var bandplanSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search segments by mode, band, license class or use",
	RunE:  runBandplanSearch,
}

var bandplanSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the loaded band plan",
	RunE:  runBandplanSummary,
}

var bandplanGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fetch the upstream band plan and regenerate the JSON dataset",
	RunE:  runBandplanGenerate,
}

func init() {
	BandplanCmd.PersistentFlags().StringVarP(&bandplanFormat, "format", "f", "table", "Output format (table/json)")
	BandplanCmd.PersistentFlags().StringVar(&bandplanData, "data", "", "Band plan JSON path (overrides config)")

	bandplanSearchCmd.Flags().StringVar(&searchMode, "mode", "", "Operating mode, e.g. CW, USB, FM")
	bandplanSearchCmd.Flags().StringVar(&searchBand, "band", "", "Band name, e.g. 20m, 70cm")
	bandplanSearchCmd.Flags().StringVar(&searchLicense, "license", "", "License class, e.g. Technician")
	bandplanSearchCmd.Flags().StringVar(&searchUse, "use", "", "Typical use, e.g. Satellite")
	bandplanSearchCmd.Flags().StringVar(&searchMin, "min", "", "Lower frequency bound")
	bandplanSearchCmd.Flags().StringVar(&searchMax, "max", "", "Upper frequency bound")

	bandplanGenerateCmd.Flags().StringVar(&generateURL, "url", bandplan.DefaultPlanURL, "Upstream band plan XML URL")
	bandplanGenerateCmd.Flags().StringVarP(&generateOutput, "output", "o", bandplan.DefaultDataPath, "Output path for the generated JSON")

	BandplanCmd.AddCommand(bandplanInfoCmd)
	BandplanCmd.AddCommand(bandplanRangeCmd)
	BandplanCmd.AddCommand(bandplanSearchCmd)
	BandplanCmd.AddCommand(bandplanSummaryCmd)
	BandplanCmd.AddCommand(bandplanGenerateCmd)
}

// loadPlan loads the configured dataset, failing the command when the
// file is missing rather than degrading the way the server does.
func loadPlan() (*bandplan.Dataset, error) {
	path := bandplanData
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, errors.Wrap(err, "loading configuration")
		}
		path = cfg.Bandplan.Path
	}
	plan := bandplan.Load(path)
	if !plan.Available() {
		return nil, errors.Newf("band plan data not available at %s (run 'hamops bandplan generate')", path)
	}
	return plan, nil
}

func runBandplanInfo(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}
	freqHz, ok := bandplan.ParseFrequency(args[0])
	if !ok {
		return errors.Newf("could not parse frequency: %q", args[0])
	}

	info := plan.FrequencyInfo(freqHz)
	if bandplanFormat == "json" {
		return displayJSON(info)
	}

	fmt.Printf("%.6f MHz (%d Hz)\n\n", info.FrequencyMHz, info.Frequency)
	if len(info.Bands) == 0 {
		pterm.Warning.Println("No band plan allocation at this frequency")
		return nil
	}
	fmt.Printf("  Band:     %s\n", info.PrimaryBand)
	fmt.Printf("  Modes:    %s\n", strings.Join(info.AllowedModes, ", "))
	fmt.Printf("  License:  %s\n", strings.Join(info.RequiredLicense, ", "))
	fmt.Printf("  Uses:     %s\n\n", strings.Join(info.TypicalUses, ", "))
	displaySegments(info.Bands)
	return nil
}

func runBandplanRange(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}
	startHz, ok := bandplan.ParseFrequency(args[0])
	if !ok {
		return errors.Newf("could not parse frequency: %q", args[0])
	}
	endHz, ok := bandplan.ParseFrequency(args[1])
	if !ok {
		return errors.Newf("could not parse frequency: %q", args[1])
	}

	segments, err := plan.BandsInRange(startHz, endHz)
	if err != nil {
		return err
	}
	if bandplanFormat == "json" {
		return displayJSON(map[string]any{
			"start": startHz,
			"end":   endHz,
			"count": len(segments),
			"bands": segments,
		})
	}

	fmt.Printf("Found %d segments between %d Hz and %d Hz\n\n", len(segments), startHz, endHz)
	displaySegments(segments)
	return nil
}

func runBandplanSearch(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}

	q := bandplan.SearchQuery{
		Mode:         searchMode,
		BandName:     searchBand,
		LicenseClass: searchLicense,
		TypicalUse:   searchUse,
	}
	if searchMin != "" {
		freqHz, ok := bandplan.ParseFrequency(searchMin)
		if !ok {
			return errors.Newf("could not parse frequency: %q", searchMin)
		}
		q.MinFreq = &freqHz
	}
	if searchMax != "" {
		freqHz, ok := bandplan.ParseFrequency(searchMax)
		if !ok {
			return errors.Newf("could not parse frequency: %q", searchMax)
		}
		q.MaxFreq = &freqHz
	}

	result := plan.Search(q)
	if bandplanFormat == "json" {
		return displayJSON(result)
	}

	fmt.Printf("Found %d segments\n\n", result.Count)
	displaySegments(result.Bands)
	return nil
}

func runBandplanSummary(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}
	summary, _ := plan.Summary()
	if bandplanFormat == "json" {
		return displayJSON(summary)
	}

	fmt.Printf("Band plan %s (%s)\n", summary.Version, summary.Country)
	fmt.Printf("  Source:   %s\n", summary.Source)
	fmt.Printf("  Segments: %d\n", summary.TotalSegments)
	fmt.Printf("  Coverage: %d - %d Hz\n", summary.FrequencyRange.Min, summary.FrequencyRange.Max)
	fmt.Printf("  Bands:    %s\n", strings.Join(summary.AmateurBands, ", "))
	fmt.Printf("  Modes:    %s\n", strings.Join(summary.AvailableModes, ", "))
	return nil
}

func runBandplanGenerate(cmd *cobra.Command, args []string) error {
	client := httpclient.New(30*time.Second, 60)

	doc, err := bandplan.Generate(context.Background(), client, generateURL)
	if err != nil {
		return err
	}
	if err := doc.WriteFile(generateOutput); err != nil {
		return err
	}

	pterm.Success.Printf("Generated %s with %d segments\n", generateOutput, len(doc.Bands))
	return nil
}

func displaySegments(segments []bandplan.Segment) {
	for _, seg := range segments {
		if seg.MinFrequencyDisplay != "" {
			fmt.Printf("%s - %s", seg.MinFrequencyDisplay, seg.MaxFrequencyDisplay)
		} else {
			fmt.Printf("%d - %d Hz", seg.MinFrequency, seg.MaxFrequency)
		}
		if seg.BandName != "" {
			fmt.Printf("  [%s]", seg.BandName)
		}
		if seg.Mode != "" {
			fmt.Printf("  %s", seg.Mode)
		}
		fmt.Println()
		if seg.Description != "" {
			fmt.Printf("  %s\n", seg.Description)
		}
		if len(seg.LicenseClass) > 0 {
			fmt.Printf("  License: %s\n", strings.Join(seg.LicenseClass, ", "))
		}
		fmt.Println()
	}
}

func displayJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding JSON output")
	}
	fmt.Println(string(data))
	return nil
}
