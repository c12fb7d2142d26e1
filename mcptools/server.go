// Package mcptools exposes the hamops operations as Model Context
// Protocol tools so LLM assistants can query the band plan, look up
// callsigns and check propagation over stdio.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kf7lze/hamops/adapters/aprs"
	"github.com/kf7lze/hamops/adapters/callsign"
	"github.com/kf7lze/hamops/adapters/propagation"
	"github.com/kf7lze/hamops/bandplan"
	"github.com/kf7lze/hamops/config"
	"github.com/kf7lze/hamops/internal/httpclient"
	"github.com/kf7lze/hamops/internal/version"
)

// MCPServer wraps the hamops services and exposes them via Model
// Context Protocol.
type MCPServer struct {
	plan        *bandplan.Dataset
	callsign    *callsign.Client
	aprs        *aprs.Client
	propagation *propagation.Client
	server      *server.MCPServer
}

// NewMCPServer creates an MCP server over the given configuration and
// band plan dataset.
func NewMCPServer(cfg *config.Config, plan *bandplan.Dataset) *MCPServer {
	httpClient := httpclient.New(
		time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second,
		cfg.HTTP.RequestsPerMinute,
	)

	s := &MCPServer{
		plan:     plan,
		callsign: callsign.New(httpClient, cfg.Callsign.BaseURL),
		aprs:     aprs.New(httpClient, cfg.APRS.BaseURL, cfg.APRS.APIKey),
		propagation: propagation.New(
			httpClient,
			cfg.Propagation.HamqslURL,
			cfg.Propagation.NOAABaseURL,
			time.Duration(cfg.Propagation.CacheTTLSeconds)*time.Second,
		),
	}

	s.server = server.NewMCPServer(
		"hamops",
		version.Get().Version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	return s
}

// registerTools registers all hamops MCP tools
func (s *MCPServer) registerTools() {
	frequencyTool := mcp.NewTool("frequency_info",
		mcp.WithDescription("Look up what the US amateur band plan allows at a frequency: bands, modes, license classes and typical uses"),
		mcp.WithString("frequency",
			mcp.Required(),
			mcp.Description("Frequency with optional unit, e.g. '14.230', '7200 kHz', '146520000'"),
		),
	)
	s.server.AddTool(frequencyTool, s.handleFrequencyInfo)

	searchTool := mcp.NewTool("band_search",
		mcp.WithDescription("Search band plan segments by mode, band name, license class, typical use or frequency bounds. All filters are optional and combine with AND"),
		mcp.WithString("mode",
			mcp.Description("Operating mode, e.g. 'CW', 'USB', 'FM'"),
		),
		mcp.WithString("band",
			mcp.Description("Band name, e.g. '20m', '70cm'"),
		),
		mcp.WithString("license",
			mcp.Description("License class, e.g. 'Technician', 'General', 'Extra'"),
		),
		mcp.WithString("use",
			mcp.Description("Typical use, e.g. 'FT8', 'Satellite', 'EmComm'"),
		),
		mcp.WithString("min_frequency",
			mcp.Description("Lower frequency bound with optional unit"),
		),
		mcp.WithString("max_frequency",
			mcp.Description("Upper frequency bound with optional unit"),
		),
	)
	s.server.AddTool(searchTool, s.handleBandSearch)

	rangeTool := mcp.NewTool("bands_in_range",
		mcp.WithDescription("List all band plan segments overlapping a frequency range"),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start of the range with optional unit"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End of the range with optional unit"),
		),
	)
	s.server.AddTool(rangeTool, s.handleBandsInRange)

	summaryTool := mcp.NewTool("bandplan_summary",
		mcp.WithDescription("Summarize the loaded band plan: version, bands, modes and overall frequency coverage"),
	)
	s.server.AddTool(summaryTool, s.handleBandplanSummary)

	callsignTool := mcp.NewTool("callsign_lookup",
		mcp.WithDescription("Look up an amateur radio callsign in HamDB: name, license class, location"),
		mcp.WithString("callsign",
			mcp.Required(),
			mcp.Description("Callsign to look up, e.g. 'W1AW'"),
		),
	)
	s.server.AddTool(callsignTool, s.handleCallsignLookup)

	locationTool := mcp.NewTool("aprs_location",
		mcp.WithDescription("Get the most recent APRS position report for a station (requires an aprs.fi API key)"),
		mcp.WithString("callsign",
			mcp.Required(),
			mcp.Description("Station callsign with optional SSID, e.g. 'W1AW-9'"),
		),
	)
	s.server.AddTool(locationTool, s.handleAPRSLocation)

	weatherTool := mcp.NewTool("aprs_weather",
		mcp.WithDescription("Get the latest APRS weather report from a station (requires an aprs.fi API key)"),
		mcp.WithString("callsign",
			mcp.Required(),
			mcp.Description("Weather station callsign"),
		),
	)
	s.server.AddTool(weatherTool, s.handleAPRSWeather)

	solarTool := mcp.NewTool("solar_conditions",
		mcp.WithDescription("Get current solar and geomagnetic conditions with HF band condition estimates"),
	)
	s.server.AddTool(solarTool, s.handleSolarConditions)
}

// Serve starts the MCP server on stdio
func (s *MCPServer) Serve() error {
	return server.ServeStdio(s.server)
}

func (s *MCPServer) handleFrequencyInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.plan.Available() {
		return mcp.NewToolResultError("Band plan data not available"), nil
	}

	raw, err := request.RequireString("frequency")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	freqHz, ok := bandplan.ParseFrequency(raw)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Could not parse frequency: %q", raw)), nil
	}

	return jsonResult(s.plan.FrequencyInfo(freqHz))
}

func (s *MCPServer) handleBandSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.plan.Available() {
		return mcp.NewToolResultError("Band plan data not available"), nil
	}

	q := bandplan.SearchQuery{
		Mode:         request.GetString("mode", ""),
		BandName:     request.GetString("band", ""),
		LicenseClass: request.GetString("license", ""),
		TypicalUse:   request.GetString("use", ""),
	}
	if raw := request.GetString("min_frequency", ""); raw != "" {
		freqHz, ok := bandplan.ParseFrequency(raw)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Could not parse frequency: %q", raw)), nil
		}
		q.MinFreq = &freqHz
	}
	if raw := request.GetString("max_frequency", ""); raw != "" {
		freqHz, ok := bandplan.ParseFrequency(raw)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Could not parse frequency: %q", raw)), nil
		}
		q.MaxFreq = &freqHz
	}

	return jsonResult(s.plan.Search(q))
}

func (s *MCPServer) handleBandsInRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.plan.Available() {
		return mcp.NewToolResultError("Band plan data not available"), nil
	}

	start, err := request.RequireString("start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := request.RequireString("end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	startHz, ok := bandplan.ParseFrequency(start)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Could not parse frequency: %q", start)), nil
	}
	endHz, ok := bandplan.ParseFrequency(end)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Could not parse frequency: %q", end)), nil
	}

	segments, err := s.plan.BandsInRange(startHz, endHz)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"start": startHz,
		"end":   endHz,
		"count": len(segments),
		"bands": segments,
	})
}

func (s *MCPServer) handleBandplanSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, ok := s.plan.Summary()
	if !ok {
		return mcp.NewToolResultError("Band plan data not available"), nil
	}
	return jsonResult(summary)
}

func (s *MCPServer) handleCallsignLookup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := request.RequireString("callsign")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record, err := s.callsign.Lookup(ctx, call)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(record)
}

func (s *MCPServer) handleAPRSLocation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := request.RequireString("callsign")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record, err := s.aprs.Location(ctx, call)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(record)
}

func (s *MCPServer) handleAPRSWeather(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	call, err := request.RequireString("callsign")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record, err := s.aprs.Weather(ctx, call)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(record)
}

func (s *MCPServer) handleSolarConditions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conditions, err := s.propagation.Current(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(conditions)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
