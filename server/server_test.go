package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kf7lze/hamops/bandplan"
	"github.com/kf7lze/hamops/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           8730,
			AllowedOrigins: []string{"*"},
		},
		Bandplan:    config.BandplanConfig{Path: "unused"},
		Callsign:    config.CallsignConfig{BaseURL: "http://127.0.0.1:1/hamdb"},
		APRS:        config.APRSConfig{BaseURL: "http://127.0.0.1:1/aprs"},
		Propagation: config.PropagationConfig{HamqslURL: "http://127.0.0.1:1/solar", NOAABaseURL: "http://127.0.0.1:1/noaa", CacheTTLSeconds: 900},
		HTTP:        config.HTTPConfig{TimeoutSeconds: 2, RequestsPerMinute: 600},
	}
}

func testPlan() *bandplan.Dataset {
	return bandplan.FromSegments("test", "fixture", "US", []bandplan.Segment{
		{
			MinFrequency: 14_000_000, MaxFrequency: 14_350_000,
			BandName: "20m", Mode: "USB",
			LicenseClass: []string{"Extra", "Advanced", "General"},
			TypicalUses:  []string{"Phone"},
		},
		{
			MinFrequency: 14_000_000, MaxFrequency: 14_070_000,
			BandName: "20m", Mode: "CW",
			LicenseClass: []string{"Extra", "Advanced", "General", "Technician"},
			TypicalUses:  []string{"CW"},
		},
		{
			MinFrequency: 7_000_000, MaxFrequency: 7_300_000,
			BandName: "40m", Mode: "LSB",
			LicenseClass: []string{"Extra", "Advanced", "General"},
			TypicalUses:  []string{"Phone", "CW"},
		},
	})
}

func newTestServer(t *testing.T, cfg *config.Config, plan *bandplan.Dataset) *HamopsServer {
	t.Helper()
	s, err := New(cfg, plan)
	require.NoError(t, err)
	return s
}

func doGet(t *testing.T, s *HamopsServer, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["bandplanLoaded"])
	assert.Equal(t, float64(3), body["bandplanSegments"])
}

func TestFrequencyEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/api/bandplan/frequency?f=14.050", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(14_050_000), body["frequency"])
	assert.Equal(t, "20m", body["primaryBand"])
	assert.Len(t, body["bands"], 2)
}

func TestFrequencyEndpointBadInput(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	for _, path := range []string{
		"/api/bandplan/frequency",
		"/api/bandplan/frequency?f=abc",
		"/api/bandplan/frequency?f=14.2.25",
	} {
		rec := doGet(t, s, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestFrequencyEndpointUnavailable(t *testing.T) {
	s := newTestServer(t, testConfig(), bandplan.Load("does-not-exist.json"))

	rec := doGet(t, s, "/api/bandplan/frequency?f=14.050", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doGet(t, s, "/api/bandplan/summary", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRangeEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/api/bandplan/range?start=7000+kHz&end=7.3", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
}

func TestRangeEndpointInverted(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/api/bandplan/range?start=14.350&end=14.000", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/api/bandplan/search?band=20m&mode=CW", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	query, ok := body["query"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "20m", query["bandName"])
	assert.Equal(t, "CW", query["mode"])
}

func TestSearchEndpointBadFrequency(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/api/bandplan/search?min=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/api/bandplan/summary", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["totalSegments"])
}

func TestAPIKeyEnforcement(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKey = "secret"
	s := newTestServer(t, cfg, testPlan())

	rec := doGet(t, s, "/api/bandplan/summary", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doGet(t, s, "/api/bandplan/summary", map[string]string{"x-api-key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doGet(t, s, "/api/bandplan/summary", map[string]string{"x-api-key": "secret"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// health stays open
	rec = doGet(t, s, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/health", map[string]string{"Origin": "https://example.com"})
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AllowedOrigins = []string{"https://allowed.example"}
	s := newTestServer(t, cfg, testPlan())

	rec := doGet(t, s, "/health", map[string]string{"Origin": "https://other.example"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = doGet(t, s, "/health", map[string]string{"Origin": "https://allowed.example"})
	assert.Equal(t, "https://allowed.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get("x-request-id"))

	rec = doGet(t, s, "/health", map[string]string{"x-request-id": "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get("x-request-id"))
}

func TestCallsignEndpointNotFound(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hamdb":{"callsign":{"call":"NOT_FOUND"}}}`))
	}))
	defer upstream.Close()

	cfg := testConfig()
	cfg.Callsign.BaseURL = upstream.URL
	s := newTestServer(t, cfg, testPlan())

	rec := doGet(t, s, "/api/callsign/NOCALL", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallsignEndpointSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hamdb":{"callsign":{"call":"W1AW","fname":"ARRL","name":"HQ","class":"C","status":"A","country":"United States"}}}`))
	}))
	defer upstream.Close()

	cfg := testConfig()
	cfg.Callsign.BaseURL = upstream.URL
	s := newTestServer(t, cfg, testPlan())

	rec := doGet(t, s, "/api/callsign/w1aw", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "W1AW", body["callsign"])
}

func TestAPRSEndpointUnavailableWithoutKey(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/api/aprs/location/W1AW-9", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPropagationEndpointUpstreamDown(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	rec := doGet(t, s, "/api/propagation", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownMethodRejected(t *testing.T) {
	s := newTestServer(t, testConfig(), testPlan())

	req := httptest.NewRequest(http.MethodPost, "/api/bandplan/summary", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
