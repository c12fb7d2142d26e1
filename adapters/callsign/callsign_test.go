package callsign

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kf7lze/hamops/errors"
	"github.com/kf7lze/hamops/internal/httpclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(httpclient.New(5*time.Second, 600), srv.URL)
}

func TestLookup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/W1AW/json", r.URL.Path)
		w.Write([]byte(`{
			"hamdb": {
				"callsign": {
					"call": "W1AW",
					"fname": "ARRL HQ",
					"name": "Operators Club",
					"class": "C",
					"status": "A",
					"country": "United States",
					"grid": "FN31pr",
					"lat": "41.7148",
					"lon": "-72.7272",
					"expires": "02/26/2031"
				},
				"messages": []
			}
		}`))
	})

	rec, err := client.Lookup(context.Background(), "w1aw")
	require.NoError(t, err)
	assert.Equal(t, "W1AW", rec.Callsign)
	assert.Equal(t, "ARRL HQ Operators Club", rec.Name)
	assert.Equal(t, "C", rec.LicenseClass)
	assert.Equal(t, "FN31pr", rec.Grid)
	require.NotNil(t, rec.Lat)
	assert.InDelta(t, 41.7148, *rec.Lat, 1e-6)
}

func TestLookupNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"hamdb": {
				"callsign": {
					"call": "NOT_FOUND",
					"class": "NOT_FOUND"
				},
				"messages": [{"status": "NOT_FOUND"}]
			}
		}`))
	})

	_, err := client.Lookup(context.Background(), "N0CALL")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestLookupUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Lookup(context.Background(), "W1AW")
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
}

func TestLookupEmptyCallsign(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty callsign")
	})

	_, err := client.Lookup(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequest(err))
}

func TestLookupTolerantOfBadCoordinates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"hamdb": {
				"callsign": {"call": "G4ABC", "lat": "-", "lon": ""}
			}
		}`))
	})

	rec, err := client.Lookup(context.Background(), "G4ABC")
	require.NoError(t, err)
	assert.Nil(t, rec.Lat)
	assert.Nil(t, rec.Lon)
}
