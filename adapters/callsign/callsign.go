// Package callsign looks up amateur radio callsigns via the HamDB API.
package callsign

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kf7lze/hamops/errors"
	"github.com/kf7lze/hamops/internal/httpclient"
	"github.com/kf7lze/hamops/logger"
)

// Record holds the subset of HamDB data hamops republishes.
type Record struct {
	Callsign     string   `json:"callsign"`
	Name         string   `json:"name,omitempty"`
	LicenseClass string   `json:"license_class,omitempty"`
	Status       string   `json:"status,omitempty"`
	Country      string   `json:"country,omitempty"`
	Grid         string   `json:"grid,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lon          *float64 `json:"lon,omitempty"`
	Expires      string   `json:"expires,omitempty"`
}

// Client queries HamDB.
type Client struct {
	http    *httpclient.Client
	baseURL string
}

// New creates a HamDB client. baseURL is typically http://api.hamdb.org.
func New(http *httpclient.Client, baseURL string) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// hamdbResponse mirrors the HamDB JSON envelope. The callsign object is
// decoded as a string map because HamDB mixes value types across fields.
type hamdbResponse struct {
	Hamdb struct {
		Callsign map[string]any `json:"callsign"`
		Messages []any          `json:"messages"`
	} `json:"hamdb"`
}

// Lookup fetches a callsign record. It returns ErrNotFound for unknown
// callsigns and wraps transport failures; callers that only care about
// presence can errors.Is against ErrNotFound.
func (c *Client) Lookup(ctx context.Context, call string) (*Record, error) {
	call = strings.ToUpper(strings.TrimSpace(call))
	if call == "" {
		return nil, errors.NewInvalidRequestf("empty callsign")
	}

	lookupURL := fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(call))

	var resp hamdbResponse
	if err := c.http.GetJSON(ctx, lookupURL, &resp); err != nil {
		logger.Logger.Warnw("HamDB lookup failed",
			"callsign", call,
			"error", err,
		)
		return nil, errors.Wrapf(err, "hamdb lookup for %s", call)
	}

	// Prefer presence of a callsign object over message parsing. HamDB
	// answers NOT_FOUND both via messages and via a callsign object full
	// of "NOT_FOUND" placeholders.
	// The raw value must be checked before stringField maps the
	// placeholder to "".
	cs := resp.Hamdb.Callsign
	rawCall, _ := cs["call"].(string)
	if len(cs) == 0 || rawCall == "NOT_FOUND" {
		return nil, errors.NewNotFoundf("callsign %s", call)
	}

	rec := &Record{
		Callsign:     stringField(cs, "call"),
		LicenseClass: stringField(cs, "class"),
		Status:       stringField(cs, "status"),
		Country:      stringField(cs, "country"),
		Grid:         firstNonEmpty(stringField(cs, "grid"), stringField(cs, "gridsquare")),
		Lat:          floatField(cs, "lat"),
		Lon:          floatField(cs, "lon"),
		Expires:      stringField(cs, "expires"),
	}
	if rec.Callsign == "" {
		rec.Callsign = call
	}

	rec.Name = strings.TrimSpace(stringField(cs, "fname") + " " + stringField(cs, "name"))

	return rec, nil
}

// stringField extracts a non-placeholder string value from the response map.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	if s == "NOT_FOUND" {
		return ""
	}
	return s
}

// floatField converts best-effort, returning nil on failure the way the
// upstream data demands: HamDB serves coordinates as strings.
func floatField(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
