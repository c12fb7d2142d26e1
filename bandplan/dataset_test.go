package bandplan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempPlan(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempPlan(t, `{
		"version": "2024.1",
		"source": "SDR-Band-Plans",
		"country": "US",
		"bands": [
			{"minFrequency": 14000000, "maxFrequency": 14350000, "bandName": "20m", "mode": "USB"},
			{"minFrequency": 7000000, "maxFrequency": 7300000, "bandName": "40m", "mode": "LSB"},
			{"minFrequency": 14000000, "maxFrequency": 14070000, "bandName": "20m", "mode": "CW"}
		]
	}`)

	d := Load(path)
	require.True(t, d.Available())
	assert.Equal(t, "2024.1", d.Version)
	assert.Equal(t, "US", d.Country)

	segs := d.Segments()
	require.Len(t, segs, 3)

	// Sorted ascending by minFrequency; the tie at 14 MHz keeps source order.
	assert.Equal(t, int64(7_000_000), segs[0].MinFrequency)
	assert.Equal(t, "USB", segs[1].Mode)
	assert.Equal(t, "CW", segs[2].Mode)
}

func TestLoadSkipsPartialRecords(t *testing.T) {
	path := writeTempPlan(t, `{
		"version": "1",
		"bands": [
			{"minFrequency": 7000000, "maxFrequency": 7300000},
			{"minFrequency": 14000000},
			{"maxFrequency": 14350000},
			{"description": "no frequencies at all"},
			{"minFrequency": 21450000, "maxFrequency": 21000000}
		]
	}`)

	d := Load(path)
	require.True(t, d.Available())
	assert.Len(t, d.Segments(), 1)
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	path := writeTempPlan(t, `{
		"version": "1",
		"frequencyIndex": {"unused": true},
		"bands": [
			{"minFrequency": 7000000, "maxFrequency": 7300000, "futureField": 42}
		]
	}`)

	d := Load(path)
	require.True(t, d.Available())
	assert.Len(t, d.Segments(), 1)
}

func TestLoadMissingFile(t *testing.T) {
	d := Load(filepath.Join(t.TempDir(), "nope.json"))

	assert.False(t, d.Available())
	assert.Empty(t, d.Segments())

	// Queries degrade to "no results" instead of failing.
	info := d.FrequencyInfo(14_050_000)
	assert.Empty(t, info.Bands)
	assert.Empty(t, info.PrimaryBand)

	segs, err := d.BandsInRange(0, 30_000_000)
	assert.NoError(t, err)
	assert.Empty(t, segs)

	result := d.Search(SearchQuery{Mode: "CW"})
	assert.Zero(t, result.Count)

	_, ok := d.Summary()
	assert.False(t, ok)
}

func TestLoadMalformedFile(t *testing.T) {
	d := Load(writeTempPlan(t, `{"bands": [not json`))

	assert.False(t, d.Available())
	_, ok := d.Summary()
	assert.False(t, ok)
}

func TestLoadDeduplicatesListFields(t *testing.T) {
	path := writeTempPlan(t, `{
		"version": "1",
		"bands": [
			{
				"minFrequency": 7000000,
				"maxFrequency": 7300000,
				"licenseClass": ["General", "Extra", "General"],
				"typicalUses": ["CW", "CW", "Digital"]
			}
		]
	}`)

	d := Load(path)
	segs := d.Segments()
	require.Len(t, segs, 1)
	assert.Equal(t, []string{"General", "Extra"}, segs[0].LicenseClass)
	assert.Equal(t, []string{"CW", "Digital"}, segs[0].TypicalUses)
}

func TestDefaultIsSingleton(t *testing.T) {
	a := Default()
	b := Default()
	assert.Same(t, a, b)
}
