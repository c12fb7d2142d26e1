package aprs

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

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(httpclient.New(5*time.Second, 600), srv.URL, apiKey)
}

func TestLocation(t *testing.T) {
	client := newTestClient(t, "testkey", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "loc", q.Get("what"))
		assert.Equal(t, "OH7RDA", q.Get("name"))
		assert.Equal(t, "testkey", q.Get("apikey"))
		assert.Equal(t, "json", q.Get("format"))

		w.Write([]byte(`{
			"result": "ok",
			"found": 1,
			"entries": [{
				"name": "OH7RDA",
				"time": "1609459200",
				"lasttime": "1609462800",
				"lat": "62.8900",
				"lng": "27.6700",
				"speed": "-",
				"course": "",
				"srccall": "OH7RDA",
				"comment": "Digipeater"
			}]
		}`))
	})

	rec, err := client.Location(context.Background(), "OH7RDA")
	require.NoError(t, err)
	assert.Equal(t, "OH7RDA", rec.Name)
	require.NotNil(t, rec.Time)
	assert.Equal(t, int64(1609459200), *rec.Time)
	require.NotNil(t, rec.Lat)
	assert.InDelta(t, 62.89, *rec.Lat, 1e-6)
	assert.Nil(t, rec.Speed, "placeholder dash should become nil")
	assert.Nil(t, rec.Course, "empty string should become nil")
	assert.Equal(t, "Digipeater", rec.Comment)
}

func TestTrackReturnsAllEntries(t *testing.T) {
	client := newTestClient(t, "testkey", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"result": "ok",
			"found": 2,
			"entries": [
				{"name": "KB1ABC-9", "lat": "42.1", "lng": "-71.1"},
				{"name": "KB1ABC-9", "lat": "42.2", "lng": "-71.2"}
			]
		}`))
	})

	records, err := client.Track(context.Background(), "KB1ABC-9")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.InDelta(t, 42.1, *records[0].Lat, 1e-6)
	assert.InDelta(t, 42.2, *records[1].Lat, 1e-6)
}

func TestWeather(t *testing.T) {
	client := newTestClient(t, "testkey", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wx", r.URL.Query().Get("what"))
		w.Write([]byte(`{
			"result": "ok",
			"found": 1,
			"entries": [{
				"name": "EW4252",
				"time": "1609459200",
				"temp": "3.9",
				"humidity": "93",
				"pressure": "1013.4",
				"wind_gust": "--"
			}]
		}`))
	})

	rec, err := client.Weather(context.Background(), "EW4252")
	require.NoError(t, err)
	require.NotNil(t, rec.Temp)
	assert.InDelta(t, 3.9, *rec.Temp, 1e-6)
	require.NotNil(t, rec.Humidity)
	assert.InDelta(t, 93, *rec.Humidity, 1e-6)
	assert.Nil(t, rec.WindGust)
}

func TestNotFound(t *testing.T) {
	client := newTestClient(t, "testkey", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "ok", "found": 0, "entries": []}`))
	})

	_, err := client.Location(context.Background(), "N0CALL")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAPIFailureResult(t *testing.T) {
	client := newTestClient(t, "badkey", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "fail", "description": "wrong API key"}`))
	})

	_, err := client.Location(context.Background(), "OH7RDA")
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
}

func TestMissingAPIKey(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without an API key")
	})

	_, err := client.Location(context.Background(), "OH7RDA")
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
}
