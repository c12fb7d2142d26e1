// Package propagation fetches solar indices and HF band conditions from
// hamqsl.com and the NOAA SWPC JSON feeds, caching results briefly so
// repeated queries do not hammer the upstream services.
package propagation

import (
	"context"
	"encoding/xml"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kf7lze/hamops/errors"
	"github.com/kf7lze/hamops/internal/httpclient"
	"github.com/kf7lze/hamops/logger"
)

// BandConditions holds the day/night condition ratings for one band group.
type BandConditions struct {
	Day   string `json:"day"`
	Night string `json:"night"`
}

// CurrentConditions combines solar indices with per-band HF condition
// ratings.
type CurrentConditions struct {
	SolarFlux        float64                    `json:"solarFlux"`
	SunspotNumber    int                        `json:"sunspotNumber"`
	KIndex           float64                    `json:"kIndex"`
	AIndex           int                        `json:"aIndex"`
	SolarWindSpeed   float64                    `json:"solarWindSpeed"`
	GeomagneticField string                     `json:"geomagneticField"`
	SignalNoiseLevel string                     `json:"signalNoiseLevel"`
	BandConditions   map[string]*BandConditions `json:"bandConditions"`
	Assessment       string                     `json:"assessment,omitempty"`
	LastUpdated      time.Time                  `json:"lastUpdated"`
}

// Summarize produces a one-line operator assessment from the indices.
func (c *CurrentConditions) Summarize() string {
	var hf string
	switch {
	case c.KIndex >= 5:
		hf = "HF propagation degraded by geomagnetic storming; favor lower bands at night"
	case c.SolarFlux >= 150 && c.KIndex <= 3:
		hf = "upper HF bands open for worldwide DX"
	case c.SolarFlux >= 100:
		hf = "20m and neighbors reliable, upper HF marginal"
	default:
		hf = "low solar flux; best results on 40m and below"
	}
	return "Geomagnetic field " + strings.ToLower(c.GeomagneticField) + ", " + hf + "."
}

// Client fetches propagation data. Fresh results are cached for the
// configured TTL; concurrent callers share one cached value.
type Client struct {
	http        *httpclient.Client
	hamqslURL   string
	noaaBaseURL string
	cacheTTL    time.Duration

	mu       sync.Mutex
	cached   *CurrentConditions
	cachedAt time.Time
}

// New creates a propagation client.
func New(http *httpclient.Client, hamqslURL, noaaBaseURL string, cacheTTL time.Duration) *Client {
	return &Client{
		http:        http,
		hamqslURL:   hamqslURL,
		noaaBaseURL: strings.TrimRight(noaaBaseURL, "/"),
		cacheTTL:    cacheTTL,
	}
}

// hamqsl solarxml feed shape
type hamqslFeed struct {
	XMLName xml.Name        `xml:"solar"`
	Data    hamqslSolarData `xml:"solardata"`
}

type hamqslSolarData struct {
	SolarFlux   string       `xml:"solarflux"`
	Sunspots    string       `xml:"sunspots"`
	KIndex      string       `xml:"kindex"`
	AIndex      string       `xml:"aindex"`
	SolarWind   string       `xml:"solarwind"`
	GeomagField string       `xml:"geomagfield"`
	SignalNoise string       `xml:"signalnoise"`
	Updated     string       `xml:"updated"`
	Bands       []hamqslBand `xml:"calculatedconditions>band"`
}

type hamqslBand struct {
	Name      string `xml:"name,attr"`
	Time      string `xml:"time,attr"`
	Condition string `xml:",chardata"`
}

// Current returns the current solar and propagation conditions,
// combining the hamqsl band ratings with NOAA solar indices. The hamqsl
// feed is optional: when it is unreachable, band conditions are
// estimated from the NOAA indices instead. If every source fails the
// call errors with ErrUnavailable.
func (c *Client) Current(ctx context.Context) (*CurrentConditions, error) {
	c.mu.Lock()
	if c.cached != nil && time.Since(c.cachedAt) < c.cacheTTL {
		cached := c.cached
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	hamqsl := c.fetchHamqsl(ctx)

	kIndex, aIndex, kOK := c.fetchKIndex(ctx)
	solarFlux, fluxOK := c.fetchSolarFlux(ctx)
	sunspots := c.fetchSunspotNumber(ctx)
	windSpeed := c.fetchSolarWind(ctx)

	if hamqsl == nil && !kOK && !fluxOK {
		return nil, errors.Wrap(errors.ErrUnavailable, "no propagation data source reachable")
	}

	conditions := &CurrentConditions{
		SolarFlux:      solarFlux,
		SunspotNumber:  sunspots,
		KIndex:         kIndex,
		AIndex:         aIndex,
		SolarWindSpeed: windSpeed,
		LastUpdated:    time.Now().UTC(),
	}

	conditions.GeomagneticField = geomagneticField(kIndex)
	conditions.SignalNoiseLevel = signalNoise(kIndex)

	if hamqsl != nil && len(hamqsl.BandConditions) > 0 {
		conditions.BandConditions = hamqsl.BandConditions
	} else {
		conditions.BandConditions = estimateBandConditions(solarFlux, kIndex)
	}

	// Prefer hamqsl indices when NOAA feeds were unreachable.
	if hamqsl != nil {
		if !fluxOK {
			conditions.SolarFlux = hamqsl.SolarFlux
		}
		if !kOK {
			conditions.KIndex = hamqsl.KIndex
			conditions.AIndex = hamqsl.AIndex
			conditions.GeomagneticField = geomagneticField(hamqsl.KIndex)
			conditions.SignalNoiseLevel = signalNoise(hamqsl.KIndex)
		}
	}

	conditions.Assessment = conditions.Summarize()

	c.mu.Lock()
	c.cached = conditions
	c.cachedAt = time.Now()
	c.mu.Unlock()

	logger.Logger.Infow("Propagation conditions fetched",
		"solar_flux", conditions.SolarFlux,
		"k_index", conditions.KIndex,
	)
	return conditions, nil
}

// fetchHamqsl fetches and parses the hamqsl solarxml feed. Failures are
// logged and reported as nil; the feed is a nice-to-have.
func (c *Client) fetchHamqsl(ctx context.Context) *CurrentConditions {
	body, err := c.http.Get(ctx, c.hamqslURL)
	if err != nil {
		logger.Logger.Warnw("hamqsl fetch failed", "error", err)
		return nil
	}

	var feed hamqslFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		logger.Logger.Warnw("hamqsl feed malformed", "error", err)
		return nil
	}

	bands := make(map[string]*BandConditions)
	for _, band := range feed.Data.Bands {
		if band.Name == "" || band.Time == "" {
			continue
		}
		bc, ok := bands[band.Name]
		if !ok {
			bc = &BandConditions{Day: "Unknown", Night: "Unknown"}
			bands[band.Name] = bc
		}
		condition := strings.TrimSpace(band.Condition)
		if condition == "" {
			condition = "Unknown"
		}
		if strings.EqualFold(band.Time, "day") {
			bc.Day = condition
		} else {
			bc.Night = condition
		}
	}

	return &CurrentConditions{
		SolarFlux:      parseFloatDefault(feed.Data.SolarFlux, 0),
		SunspotNumber:  int(parseFloatDefault(feed.Data.Sunspots, 0)),
		KIndex:         parseFloatDefault(feed.Data.KIndex, 0),
		AIndex:         int(parseFloatDefault(feed.Data.AIndex, 0)),
		SolarWindSpeed: parseFloatDefault(feed.Data.SolarWind, 0),
		BandConditions: bands,
	}
}

func (c *Client) fetchKIndex(ctx context.Context) (kIndex float64, aIndex int, ok bool) {
	var entries []map[string]any
	if err := c.http.GetJSON(ctx, c.noaaBaseURL+"/planetary_k_index_1m.json", &entries); err != nil || len(entries) == 0 {
		logger.Logger.Debugw("NOAA K-index feed unavailable", "error", err)
		return 0, 0, false
	}
	latest := entries[len(entries)-1]
	return numeric(latest["planetary_k_index"], 0), int(numeric(latest["planetary_a_index"], 0)), true
}

func (c *Client) fetchSolarFlux(ctx context.Context) (float64, bool) {
	var entries []map[string]any
	if err := c.http.GetJSON(ctx, c.noaaBaseURL+"/f107_cm_flux.json", &entries); err != nil || len(entries) == 0 {
		logger.Logger.Debugw("NOAA solar flux feed unavailable", "error", err)
		return 100, false
	}
	return numeric(entries[len(entries)-1]["flux"], 100), true
}

func (c *Client) fetchSunspotNumber(ctx context.Context) int {
	var entries []map[string]any
	if err := c.http.GetJSON(ctx, c.noaaBaseURL+"/solar-cycle/sunspots.json", &entries); err != nil || len(entries) == 0 {
		return 0
	}
	return int(numeric(entries[len(entries)-1]["sunspot_number"], 0))
}

func (c *Client) fetchSolarWind(ctx context.Context) float64 {
	var entries []map[string]any
	if err := c.http.GetJSON(ctx, c.noaaBaseURL+"/rtsw/rtsw_wind_1m.json", &entries); err != nil || len(entries) == 0 {
		return 0
	}
	return numeric(entries[len(entries)-1]["proton_speed"], 0)
}

// geomagneticField classifies the geomagnetic field from the K-index.
func geomagneticField(kIndex float64) string {
	switch {
	case kIndex >= 6:
		return "Storm"
	case kIndex >= 5:
		return "Active"
	case kIndex >= 4:
		return "Unsettled"
	case kIndex >= 2:
		return "Quiet"
	default:
		return "Very Quiet"
	}
}

// signalNoise estimates the background noise level from the K-index.
func signalNoise(kIndex float64) string {
	switch {
	case kIndex >= 5:
		return "S3-S5"
	case kIndex >= 4:
		return "S2-S3"
	case kIndex >= 3:
		return "S1-S2"
	default:
		return "S0-S1"
	}
}

// estimateBandConditions derives band ratings from solar indices when
// the hamqsl feed is unavailable.
func estimateBandConditions(solarFlux, kIndex float64) map[string]*BandConditions {
	switch {
	case solarFlux >= 150 && kIndex <= 3:
		return map[string]*BandConditions{
			"80m-40m": {Day: "Fair", Night: "Good"},
			"30m-20m": {Day: "Good", Night: "Good"},
			"17m-15m": {Day: "Good", Night: "Fair"},
			"12m-10m": {Day: "Good", Night: "Fair"},
		}
	case solarFlux >= 100 && kIndex <= 4:
		return map[string]*BandConditions{
			"80m-40m": {Day: "Fair", Night: "Good"},
			"30m-20m": {Day: "Good", Night: "Fair"},
			"17m-15m": {Day: "Fair", Night: "Poor"},
			"12m-10m": {Day: "Fair", Night: "Poor"},
		}
	case kIndex >= 5:
		return map[string]*BandConditions{
			"80m-40m": {Day: "Poor", Night: "Fair"},
			"30m-20m": {Day: "Fair", Night: "Poor"},
			"17m-15m": {Day: "Poor", Night: "Poor"},
			"12m-10m": {Day: "Poor", Night: "Poor"},
		}
	default:
		return map[string]*BandConditions{
			"80m-40m": {Day: "Fair", Night: "Good"},
			"30m-20m": {Day: "Fair", Night: "Fair"},
			"17m-15m": {Day: "Poor", Night: "Poor"},
			"12m-10m": {Day: "Poor", Night: "Poor"},
		}
	}
}

func parseFloatDefault(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return f
}

// numeric coerces NOAA JSON values, which switch between numbers and
// strings across feeds.
func numeric(v any, fallback float64) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return fallback
		}
		return f
	default:
		return fallback
	}
}
