package bandplan

import (
	"sort"

	"github.com/kf7lze/hamops/errors"
)

// FrequencyInfo reports every segment containing freqHz together with the
// union of their modes, license classes and typical uses. The aggregates
// are deduplicated and sorted lexicographically so identical queries
// produce identical output.
//
// A frequency outside every allocation is a valid answer, not an error:
// the result simply carries empty aggregates and no primary band.
func (d *Dataset) FrequencyInfo(freqHz int64) FrequencyInfo {
	info := FrequencyInfo{
		Frequency:       freqHz,
		FrequencyMHz:    float64(freqHz) / 1_000_000,
		Bands:           []Segment{},
		AllowedModes:    []string{},
		RequiredLicense: []string{},
		TypicalUses:     []string{},
	}

	modes := make(map[string]struct{})
	licenses := make(map[string]struct{})
	uses := make(map[string]struct{})

	// Linear scan over the sorted sequence. Band plans top out in the low
	// thousands of segments; an interval tree would only pay off well
	// beyond that.
	for i := range d.segments {
		seg := &d.segments[i]
		if !seg.Contains(freqHz) {
			continue
		}
		info.Bands = append(info.Bands, *seg)

		if seg.Mode != "" {
			modes[seg.Mode] = struct{}{}
		}
		for _, lc := range seg.LicenseClass {
			licenses[lc] = struct{}{}
		}
		for _, use := range seg.TypicalUses {
			uses[use] = struct{}{}
		}
		// First named segment in ascending order wins.
		if info.PrimaryBand == "" && seg.BandName != "" {
			info.PrimaryBand = seg.BandName
		}
	}

	info.AllowedModes = sortedKeys(modes)
	info.RequiredLicense = sortedKeys(licenses)
	info.TypicalUses = sortedKeys(uses)
	return info
}

// BandsInRange returns the segments overlapping [startHz, endHz], bounds
// inclusive, ascending by minimum frequency. An inverted range is a
// caller bug and is rejected rather than silently emptied.
func (d *Dataset) BandsInRange(startHz, endHz int64) ([]Segment, error) {
	if startHz > endHz {
		return nil, errors.Wrapf(errors.ErrInvalidRange, "start %d Hz above end %d Hz", startHz, endHz)
	}

	results := []Segment{}
	for i := range d.segments {
		if d.segments[i].Overlaps(startHz, endHz) {
			results = append(results, d.segments[i])
		}
	}
	return results, nil
}

// Search finds segments matching every supplied filter. The mode,
// bandName and typicalUse filters resolve through the inverted indices
// and are intersected; a value absent from the index vocabulary yields
// zero results, not an error. License class and frequency bounds are
// applied as post-filters on the candidate set.
func (d *Dataset) Search(q SearchQuery) SearchResult {
	var candidates map[int]struct{}
	constrained := false

	intersect := func(positions []int) {
		next := make(map[int]struct{}, len(positions))
		for _, pos := range positions {
			if !constrained {
				next[pos] = struct{}{}
			} else if _, ok := candidates[pos]; ok {
				next[pos] = struct{}{}
			}
		}
		candidates = next
		constrained = true
	}

	if q.Mode != "" {
		intersect(d.modeIndex[q.Mode])
	}
	if q.BandName != "" {
		intersect(d.bandNameIndex[q.BandName])
	}
	if q.TypicalUse != "" {
		intersect(d.useIndex[q.TypicalUse])
	}

	// No indexed filter supplied: start from the full universe.
	if !constrained {
		candidates = make(map[int]struct{}, len(d.segments))
		for i := range d.segments {
			candidates[i] = struct{}{}
		}
	}

	// Walk candidates in position order: the segment sequence is already
	// sorted by MinFrequency with ties in source order, so the results
	// inherit that order without a re-sort.
	positions := make([]int, 0, len(candidates))
	for pos := range candidates {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	results := []Segment{}
	for _, pos := range positions {
		seg := &d.segments[pos]

		if q.LicenseClass != "" && !contains(seg.LicenseClass, q.LicenseClass) {
			continue
		}
		if q.MinFreq != nil && seg.MaxFrequency < *q.MinFreq {
			continue
		}
		if q.MaxFreq != nil && seg.MinFrequency > *q.MaxFreq {
			continue
		}
		results = append(results, *seg)
	}

	return SearchResult{
		Query: q.echo(),
		Count: len(results),
		Bands: results,
	}
}

// Summary describes the loaded plan: distinct band names and modes, the
// overall frequency span, provenance and segment count. The second
// return value is false when the Dataset never loaded.
func (d *Dataset) Summary() (*Summary, bool) {
	if !d.loaded {
		return nil, false
	}

	bandNames := make(map[string]struct{})
	modes := make(map[string]struct{})
	var span FrequencyRange
	for i, seg := range d.segments {
		if seg.BandName != "" {
			bandNames[seg.BandName] = struct{}{}
		}
		if seg.Mode != "" {
			modes[seg.Mode] = struct{}{}
		}
		if i == 0 || seg.MinFrequency < span.Min {
			span.Min = seg.MinFrequency
		}
		if seg.MaxFrequency > span.Max {
			span.Max = seg.MaxFrequency
		}
	}

	return &Summary{
		Version:        d.Version,
		Source:         d.Source,
		Country:        d.Country,
		TotalSegments:  len(d.segments),
		AmateurBands:   sortedKeys(bandNames),
		AvailableModes: sortedKeys(modes),
		FrequencyRange: span,
	}, true
}

// echo returns only the filters that were actually supplied, for the
// query field of a search result.
func (q SearchQuery) echo() map[string]any {
	echo := make(map[string]any)
	if q.Mode != "" {
		echo["mode"] = q.Mode
	}
	if q.BandName != "" {
		echo["bandName"] = q.BandName
	}
	if q.LicenseClass != "" {
		echo["licenseClass"] = q.LicenseClass
	}
	if q.TypicalUse != "" {
		echo["typicalUse"] = q.TypicalUse
	}
	if q.MinFreq != nil {
		echo["minFreq"] = *q.MinFreq
	}
	if q.MaxFreq != nil {
		echo["maxFreq"] = *q.MaxFreq
	}
	return echo
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
