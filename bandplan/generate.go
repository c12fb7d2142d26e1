package bandplan

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kf7lze/hamops/errors"
	"github.com/kf7lze/hamops/internal/httpclient"
	"github.com/kf7lze/hamops/logger"
)

// DefaultPlanURL is the upstream SDR# band plan for the United States.
// The # in the path is percent-encoded.
const DefaultPlanURL = "https://raw.githubusercontent.com/Arrin-KN1E/SDR-Band-Plans/master/US/SDR%23/BandPlan.xml"

// Document is the generated band plan file format consumed by Load.
type Document struct {
	Version string    `json:"version"`
	Source  string    `json:"source"`
	Country string    `json:"country"`
	Bands   []Segment `json:"bands"`
}

type planXML struct {
	Entries []rangeEntryXML `xml:"RangeEntry"`
}

type rangeEntryXML struct {
	MinFrequency string `xml:"minFrequency,attr"`
	MaxFrequency string `xml:"maxFrequency,attr"`
	Mode         string `xml:"mode,attr"`
	Step         string `xml:"step,attr"`
	Color        string `xml:"color,attr"`
	Description  string `xml:",chardata"`
}

// amateurBands maps each US amateur band to its frequency span in Hz.
// A segment is assigned to the band containing its center frequency.
var amateurBands = []struct {
	name     string
	min, max int64
}{
	{"2200m", 135_700, 137_800},
	{"630m", 472_000, 479_000},
	{"160m", 1_800_000, 2_000_000},
	{"80m", 3_500_000, 4_000_000},
	{"60m", 5_330_500, 5_406_400},
	{"40m", 7_000_000, 7_300_000},
	{"30m", 10_100_000, 10_150_000},
	{"20m", 14_000_000, 14_350_000},
	{"17m", 18_068_000, 18_168_000},
	{"15m", 21_000_000, 21_450_000},
	{"12m", 24_890_000, 24_990_000},
	{"10m", 28_000_000, 29_700_000},
	{"6m", 50_000_000, 54_000_000},
	{"2m", 144_000_000, 148_000_000},
	{"1.25m", 219_000_000, 225_000_000},
	{"70cm", 420_000_000, 450_000_000},
	{"33cm", 902_000_000, 928_000_000},
	{"23cm", 1_240_000_000, 1_300_000_000},
	{"13cm", 2_300_000_000, 2_450_000_000},
}

// Generate fetches the upstream band plan XML, enriches each segment
// with band names, license classes and typical uses, and returns the
// document ready to be written to disk.
func Generate(ctx context.Context, client *httpclient.Client, url string) (*Document, error) {
	logger.Logger.Infow("Fetching band plan", "url", url)
	body, err := client.Get(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "fetching band plan XML")
	}

	segments, err := parsePlanXML(body)
	if err != nil {
		return nil, err
	}
	logger.Logger.Infow("Parsed band plan entries", "count", len(segments))

	for i := range segments {
		enrichSegment(&segments[i])
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].MinFrequency < segments[j].MinFrequency
	})

	return &Document{
		Version: "1.0",
		Source:  "https://github.com/Arrin-KN1E/SDR-Band-Plans",
		Country: "United States",
		Bands:   segments,
	}, nil
}

// WriteFile writes the document as indented JSON, creating the parent
// directory if needed.
func (d *Document) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating data directory")
		}
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding band plan document")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing band plan document")
	}
	return nil
}

func parsePlanXML(body []byte) ([]Segment, error) {
	var plan planXML
	if err := xml.Unmarshal(body, &plan); err != nil {
		return nil, errors.Wrap(err, "parsing band plan XML")
	}

	segments := make([]Segment, 0, len(plan.Entries))
	for _, entry := range plan.Entries {
		minHz, okMin := parseSourceFrequency(entry.MinFrequency)
		maxHz, okMax := parseSourceFrequency(entry.MaxFrequency)
		if !okMin || !okMax {
			continue
		}

		seg := Segment{
			MinFrequency:        minHz,
			MaxFrequency:        maxHz,
			MinFrequencyDisplay: strings.TrimSpace(entry.MinFrequency),
			MaxFrequencyDisplay: strings.TrimSpace(entry.MaxFrequency),
			Mode:                entry.Mode,
			Color:               entry.Color,
			Description:         strings.TrimSpace(entry.Description),
		}
		if step, err := strconv.Atoi(entry.Step); err == nil {
			seg.Step = step
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// parseSourceFrequency converts the upstream file's frequency notation
// to Hz: a decimal point means MHz, values above 100000 are already Hz,
// anything else is kHz. This is looser than ParseFrequency because the
// source mixes all three notations.
func parseSourceFrequency(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ".") {
		mhz, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return int64(mhz * 1_000_000), true
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if v > 100_000 {
		return v, true
	}
	return v * 1000, true
}

func enrichSegment(seg *Segment) {
	center := (seg.MinFrequency + seg.MaxFrequency) / 2
	for _, band := range amateurBands {
		if band.min <= center && center <= band.max {
			seg.BandName = band.name
			break
		}
	}

	seg.MinFrequencyMHz = roundMHz(seg.MinFrequency)
	seg.MaxFrequencyMHz = roundMHz(seg.MaxFrequency)

	if seg.Description == "" {
		return
	}
	desc := strings.ToLower(seg.Description)

	switch {
	case strings.Contains(desc, "extra"):
		seg.LicenseClass = []string{"Extra"}
	case strings.Contains(desc, "advanced"):
		seg.LicenseClass = []string{"Extra", "Advanced"}
	case strings.Contains(desc, "general"):
		seg.LicenseClass = []string{"Extra", "Advanced", "General"}
	case strings.Contains(desc, "technician") || center > 50_000_000:
		seg.LicenseClass = []string{"Extra", "Advanced", "General", "Technician"}
	case strings.Contains(desc, "novice"):
		seg.LicenseClass = []string{"Extra", "Advanced", "General", "Technician", "Novice"}
	}

	var uses []string
	addUse := func(use string, keywords ...string) {
		for _, kw := range keywords {
			if strings.Contains(desc, kw) {
				uses = append(uses, use)
				return
			}
		}
	}
	addUse("CW", "cw", "morse")
	addUse("Phone", "phone", "ssb", "voice")
	addUse("Digital", "digital", "rtty", "psk")
	addUse("Data", "data", "packet")
	addUse("FM", "fm", "repeater")
	addUse("EME", "eme", "moonbounce")
	addUse("Satellite", "satellite")
	addUse("Beacon", "beacon")
	addUse("Emergency", "emergency", "ares")
	seg.TypicalUses = uses
}

func roundMHz(hz int64) float64 {
	return math.Round(float64(hz)/1_000_000*1e6) / 1e6
}
