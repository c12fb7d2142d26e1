package bandplan

// Segment is one contiguous frequency allocation rule from the band plan.
// Frequencies are integer Hz; the display strings preserve the source
// document's original formatting for audit output.
type Segment struct {
	MinFrequency        int64    `json:"minFrequency"`
	MaxFrequency        int64    `json:"maxFrequency"`
	MinFrequencyMHz     float64  `json:"minFrequencyMHz,omitempty"`
	MaxFrequencyMHz     float64  `json:"maxFrequencyMHz,omitempty"`
	MinFrequencyDisplay string   `json:"minFrequencyDisplay,omitempty"`
	MaxFrequencyDisplay string   `json:"maxFrequencyDisplay,omitempty"`
	BandName            string   `json:"bandName,omitempty"`
	Mode                string   `json:"mode,omitempty"`
	Description         string   `json:"description,omitempty"`
	LicenseClass        []string `json:"licenseClass,omitempty"`
	TypicalUses         []string `json:"typicalUses,omitempty"`
	Color               string   `json:"color,omitempty"`
	Step                int      `json:"step,omitempty"`
}

// Contains reports whether the segment covers the given frequency.
// Both bounds are inclusive, matching the dataset's own semantics.
func (s *Segment) Contains(freqHz int64) bool {
	return s.MinFrequency <= freqHz && freqHz <= s.MaxFrequency
}

// Overlaps reports whether the segment intersects [startHz, endHz],
// bounds inclusive on both sides.
func (s *Segment) Overlaps(startHz, endHz int64) bool {
	return s.MinFrequency <= endHz && s.MaxFrequency >= startHz
}

// FrequencyInfo aggregates everything the band plan says about a single
// frequency. A frequency with no allocation yields empty aggregates, not
// an error.
type FrequencyInfo struct {
	Frequency       int64     `json:"frequency"`
	FrequencyMHz    float64   `json:"frequencyMHz"`
	Bands           []Segment `json:"bands"`
	PrimaryBand     string    `json:"primaryBand,omitempty"`
	AllowedModes    []string  `json:"allowedModes"`
	RequiredLicense []string  `json:"requiredLicense"`
	TypicalUses     []string  `json:"typicalUses"`
}

// SearchQuery carries the optional filters for Dataset.Search. Empty
// strings and nil bounds mean "not supplied".
type SearchQuery struct {
	Mode         string
	BandName     string
	LicenseClass string
	TypicalUse   string
	MinFreq      *int64
	MaxFreq      *int64
}

// SearchResult is the outcome of a band plan search. Query echoes only
// the filters that were actually supplied.
type SearchResult struct {
	Query map[string]any `json:"query"`
	Count int            `json:"count"`
	Bands []Segment      `json:"bands"`
}

// Summary describes the loaded band plan as a whole.
type Summary struct {
	Version        string         `json:"version"`
	Source         string         `json:"source"`
	Country        string         `json:"country"`
	TotalSegments  int            `json:"totalSegments"`
	AmateurBands   []string       `json:"amateurBands"`
	AvailableModes []string       `json:"availableModes"`
	FrequencyRange FrequencyRange `json:"frequencyRange"`
}

// FrequencyRange is an inclusive [Min, Max] span in Hz.
type FrequencyRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}
