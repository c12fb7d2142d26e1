// Package bandplan answers frequency-based queries against an amateur
// radio band plan: point containment, range overlap, indexed search and
// summary statistics.
//
// The plan is loaded once from a generated JSON document and is immutable
// afterwards, so every query operation is safe for concurrent use without
// locking.
package bandplan

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/kf7lze/hamops/logger"
)

// DefaultDataPath is where the generated band plan document is expected
// when no explicit path is configured.
const DefaultDataPath = "data/us_bandplan.json"

// Dataset is an immutable, in-memory band plan with precomputed inverted
// indices. A Dataset that failed to load is usable but empty: queries
// degrade to "no results" and Summary reports it as unavailable.
type Dataset struct {
	Version string
	Source  string
	Country string

	segments []Segment
	loaded   bool

	// Inverted indices map a filter value to ascending segment positions.
	// All three share the same position key space so search can intersect
	// across them.
	modeIndex     map[string][]int
	bandNameIndex map[string][]int
	useIndex      map[string][]int
}

// rawDocument mirrors the generated JSON file. Min/max frequencies are
// pointers so that records missing them can be told apart from zero and
// skipped.
type rawDocument struct {
	Version string       `json:"version"`
	Source  string       `json:"source"`
	Country string       `json:"country"`
	Bands   []rawSegment `json:"bands"`
}

type rawSegment struct {
	MinFrequency        *int64   `json:"minFrequency"`
	MaxFrequency        *int64   `json:"maxFrequency"`
	MinFrequencyMHz     float64  `json:"minFrequencyMHz"`
	MaxFrequencyMHz     float64  `json:"maxFrequencyMHz"`
	MinFrequencyDisplay string   `json:"minFrequencyDisplay"`
	MaxFrequencyDisplay string   `json:"maxFrequencyDisplay"`
	BandName            string   `json:"bandName"`
	Mode                string   `json:"mode"`
	Description         string   `json:"description"`
	LicenseClass        []string `json:"licenseClass"`
	TypicalUses         []string `json:"typicalUses"`
	Color               string   `json:"color"`
	Step                int      `json:"step"`
}

// Load reads the band plan document at path and builds the Dataset.
//
// Load never fails: a missing or malformed file yields an empty Dataset
// whose queries all report "no results" and whose Summary is unavailable.
// Refreshing the plan means regenerating the file and restarting the
// process; there is no reload path.
func Load(path string) *Dataset {
	d := &Dataset{
		modeIndex:     make(map[string][]int),
		bandNameIndex: make(map[string][]int),
		useIndex:      make(map[string][]int),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Logger.Warnw("Band plan data file unavailable",
			"path", path,
			"error", err,
		)
		return d
	}

	var doc rawDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Logger.Errorw("Band plan data file malformed",
			"path", path,
			"error", err,
		)
		return d
	}

	d.Version = doc.Version
	d.Source = doc.Source
	d.Country = doc.Country

	for _, rec := range doc.Bands {
		// Tolerate partial records rather than failing the whole load.
		if rec.MinFrequency == nil || rec.MaxFrequency == nil {
			continue
		}
		if *rec.MinFrequency > *rec.MaxFrequency {
			continue
		}
		d.segments = append(d.segments, Segment{
			MinFrequency:        *rec.MinFrequency,
			MaxFrequency:        *rec.MaxFrequency,
			MinFrequencyMHz:     rec.MinFrequencyMHz,
			MaxFrequencyMHz:     rec.MaxFrequencyMHz,
			MinFrequencyDisplay: rec.MinFrequencyDisplay,
			MaxFrequencyDisplay: rec.MaxFrequencyDisplay,
			BandName:            rec.BandName,
			Mode:                rec.Mode,
			Description:         rec.Description,
			LicenseClass:        dedupeOrdered(rec.LicenseClass),
			TypicalUses:         dedupeOrdered(rec.TypicalUses),
			Color:               rec.Color,
			Step:                rec.Step,
		})
	}

	// Ties keep the source order.
	sort.SliceStable(d.segments, func(i, j int) bool {
		return d.segments[i].MinFrequency < d.segments[j].MinFrequency
	})

	d.buildIndices()
	d.loaded = true

	logger.Logger.Infow("Band plan loaded",
		"path", path,
		"segments", len(d.segments),
		"version", d.Version,
	)
	return d
}

// FromSegments builds a Dataset directly from segments, mainly for tests
// and embedded plans. Provenance fields may be left empty.
func FromSegments(version, source, country string, segments []Segment) *Dataset {
	d := &Dataset{
		Version:       version,
		Source:        source,
		Country:       country,
		modeIndex:     make(map[string][]int),
		bandNameIndex: make(map[string][]int),
		useIndex:      make(map[string][]int),
	}
	d.segments = append(d.segments, segments...)
	sort.SliceStable(d.segments, func(i, j int) bool {
		return d.segments[i].MinFrequency < d.segments[j].MinFrequency
	})
	d.buildIndices()
	d.loaded = true
	return d
}

// buildIndices populates the three inverted indices in a single pass over
// the sorted segment sequence. Positions are appended in ascending order.
func (d *Dataset) buildIndices() {
	for i, seg := range d.segments {
		if seg.Mode != "" {
			d.modeIndex[seg.Mode] = append(d.modeIndex[seg.Mode], i)
		}
		if seg.BandName != "" {
			d.bandNameIndex[seg.BandName] = append(d.bandNameIndex[seg.BandName], i)
		}
		for _, use := range seg.TypicalUses {
			d.useIndex[use] = append(d.useIndex[use], i)
		}
	}
}

// Available reports whether the band plan document was loaded. Callers
// surfacing query results over the network map !Available to a
// service-unavailable response.
func (d *Dataset) Available() bool {
	return d.loaded
}

// Segments returns the sorted segment sequence. The returned slice is
// shared and must not be modified.
func (d *Dataset) Segments() []Segment {
	return d.segments
}

// dedupeOrdered removes duplicates while preserving first-occurrence
// order, so list-valued fields behave as ordered sets.
func dedupeOrdered(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

var (
	defaultDataset *Dataset
	defaultOnce    sync.Once
)

// Default returns the process-wide Dataset, loading it from
// DefaultDataPath on first use. Concurrent first callers observe the
// same completed load.
func Default() *Dataset {
	defaultOnce.Do(func() {
		defaultDataset = Load(DefaultDataPath)
	})
	return defaultDataset
}
