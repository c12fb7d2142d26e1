// Package aprs fetches station location and weather data from the
// aprs.fi API. All numeric fields arrive as strings with "-" style
// placeholders for missing values, so parsing is deliberately forgiving.
package aprs

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/kf7lze/hamops/errors"
	"github.com/kf7lze/hamops/internal/httpclient"
	"github.com/kf7lze/hamops/logger"
)

// LocationRecord is a normalized aprs.fi position report. Times are Unix
// epoch seconds.
type LocationRecord struct {
	Name           string   `json:"name"`
	Time           *int64   `json:"time,omitempty"`
	LastTime       *int64   `json:"lasttime,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lng            *float64 `json:"lng,omitempty"`
	Course         *float64 `json:"course,omitempty"`
	Speed          *float64 `json:"speed,omitempty"`
	Altitude       *float64 `json:"altitude,omitempty"`
	Symbol         string   `json:"symbol,omitempty"`
	SrcCall        string   `json:"srccall,omitempty"`
	DstCall        string   `json:"dstcall,omitempty"`
	Comment        string   `json:"comment,omitempty"`
	Path           string   `json:"path,omitempty"`
	PHG            string   `json:"phg,omitempty"`
	Status         string   `json:"status,omitempty"`
	StatusLastTime *int64   `json:"status_lasttime,omitempty"`
}

// WeatherRecord is a normalized aprs.fi weather report, including the
// station position.
type WeatherRecord struct {
	Name          string   `json:"name"`
	Time          *int64   `json:"time,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
	Temp          *float64 `json:"temp,omitempty"`
	Pressure      *float64 `json:"pressure,omitempty"`
	Humidity      *float64 `json:"humidity,omitempty"`
	WindDirection *float64 `json:"wind_direction,omitempty"`
	WindSpeed     *float64 `json:"wind_speed,omitempty"`
	WindGust      *float64 `json:"wind_gust,omitempty"`
	Rain1h        *float64 `json:"rain_1h,omitempty"`
	Rain24h       *float64 `json:"rain_24h,omitempty"`
	RainMn        *float64 `json:"rain_mn,omitempty"`
	Luminosity    *float64 `json:"luminosity,omitempty"`
}

// Client queries the aprs.fi API. A missing API key is a configuration
// gap, not a programming error: calls fail with ErrUnavailable.
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
}

// New creates an aprs.fi client. baseURL is typically
// https://api.aprs.fi/api/get.
func New(http *httpclient.Client, baseURL, apiKey string) *Client {
	return &Client{
		http:    http,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// aprs.fi responds 200 even for failures; the result field carries
// "ok" or "fail".
type apiResponse struct {
	Result  string           `json:"result"`
	Found   int              `json:"found"`
	Entries []map[string]any `json:"entries"`
}

func (c *Client) fetch(ctx context.Context, what, name string) (*apiResponse, error) {
	if c.apiKey == "" {
		logger.Logger.Warnw("aprs.fi API key not configured",
			"hint", "set HAMOPS_APRS_API_KEY",
		)
		return nil, errors.Wrap(errors.ErrUnavailable, "aprs.fi API key not configured")
	}

	params := url.Values{}
	params.Set("what", what)
	params.Set("name", name)
	params.Set("apikey", c.apiKey)
	params.Set("format", "json")

	var resp apiResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, errors.Wrapf(err, "aprs.fi %s query for %s", what, name)
	}
	if resp.Result != "ok" {
		return nil, errors.Newf("aprs.fi returned result %q for %s", resp.Result, name)
	}
	return &resp, nil
}

// Location returns the latest position report for a callsign, or
// ErrNotFound when aprs.fi has never heard it.
func (c *Client) Location(ctx context.Context, call string) (*LocationRecord, error) {
	resp, err := c.fetch(ctx, "loc", call)
	if err != nil {
		return nil, err
	}
	if len(resp.Entries) == 0 {
		return nil, errors.NewNotFoundf("no APRS position for %s", call)
	}
	rec := locationFromEntry(resp.Entries[0], call)
	return &rec, nil
}

// Track returns all position reports aprs.fi holds for a callsign,
// oldest first as served upstream.
func (c *Client) Track(ctx context.Context, call string) ([]LocationRecord, error) {
	resp, err := c.fetch(ctx, "loc", call)
	if err != nil {
		return nil, err
	}
	if len(resp.Entries) == 0 {
		return nil, errors.NewNotFoundf("no APRS track for %s", call)
	}
	records := make([]LocationRecord, 0, len(resp.Entries))
	for _, entry := range resp.Entries {
		records = append(records, locationFromEntry(entry, call))
	}
	return records, nil
}

// Weather returns the latest weather report for an APRS weather station.
func (c *Client) Weather(ctx context.Context, call string) (*WeatherRecord, error) {
	resp, err := c.fetch(ctx, "wx", call)
	if err != nil {
		return nil, err
	}
	if len(resp.Entries) == 0 {
		return nil, errors.NewNotFoundf("no APRS weather for %s", call)
	}
	entry := resp.Entries[0]

	rec := WeatherRecord{
		Name:          stringVal(entry, "name", call),
		Time:          toInt(entry["time"]),
		Lat:           toFloat(entry["lat"]),
		Lng:           toFloat(entry["lng"]),
		Temp:          toFloat(entry["temp"]),
		Pressure:      toFloat(entry["pressure"]),
		Humidity:      toFloat(entry["humidity"]),
		WindDirection: toFloat(entry["wind_direction"]),
		WindSpeed:     toFloat(entry["wind_speed"]),
		WindGust:      toFloat(entry["wind_gust"]),
		Rain1h:        toFloat(entry["rain_1h"]),
		Rain24h:       toFloat(entry["rain_24h"]),
		RainMn:        toFloat(entry["rain_mn"]),
		Luminosity:    toFloat(entry["luminosity"]),
	}
	return &rec, nil
}

func locationFromEntry(entry map[string]any, call string) LocationRecord {
	return LocationRecord{
		Name:           stringVal(entry, "name", call),
		Time:           toInt(entry["time"]),
		LastTime:       toInt(entry["lasttime"]),
		Lat:            toFloat(entry["lat"]),
		Lng:            toFloat(entry["lng"]),
		Course:         toFloat(entry["course"]),
		Speed:          toFloat(entry["speed"]),
		Altitude:       toFloat(entry["altitude"]),
		Symbol:         stringVal(entry, "symbol", ""),
		SrcCall:        stringVal(entry, "srccall", ""),
		DstCall:        stringVal(entry, "dstcall", ""),
		Comment:        stringVal(entry, "comment", ""),
		Path:           stringVal(entry, "path", ""),
		PHG:            stringVal(entry, "phg", ""),
		Status:         stringVal(entry, "status", ""),
		StatusLastTime: toInt(entry["status_lasttime"]),
	}
}

func stringVal(entry map[string]any, key, fallback string) string {
	if s, ok := entry[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// placeholder values aprs.fi substitutes for missing readings
func isPlaceholder(s string) bool {
	switch s {
	case "", "-", "--", "---", "nan", "None":
		return true
	}
	return false
}

// toFloat converts forgivingly, returning nil for anything that is not
// a usable number.
func toFloat(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case string:
		s := strings.TrimSpace(val)
		if isPlaceholder(s) {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// toInt converts forgivingly, truncating fractional values.
func toInt(v any) *int64 {
	f := toFloat(v)
	if f == nil {
		return nil
	}
	i := int64(*f)
	return &i
}
